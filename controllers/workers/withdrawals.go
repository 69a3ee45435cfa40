package workers

import (
	"net/http"
	"strings"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"
)

type WithdrawalRequest struct {
	Amount        float64 `json:"amount"`
	Method        string  `json:"method" validate:"required"`
	AccountNumber string  `json:"account_number" validate:"required"`
}

// RequestWithdrawalHandler creates a withdrawal request against the
// worker's earned balance.
func RequestWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	var req WithdrawalRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	wd, err := workflow.RequestWithdrawal(database.DB.WithContext(r.Context()), workflow.RequestWithdrawalInput{
		WorkerID:      uid,
		Amount:        req.Amount,
		Method:        req.Method,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Withdrawal request submitted",
		Data: map[string]interface{}{
			"withdrawal": map[string]interface{}{
				"id":             wd.ID,
				"transaction_id": wd.TransactionID,
				"amount":         wd.Amount,
				"method":         wd.Method,
				"account_number": MaskAccountNumber(wd.AccountNumber),
				"status":         wd.Status,
				"created_at":     wd.CreatedAt,
			},
		},
	})
}

// GetBalanceHandler returns the worker's available balance.
func GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	balance, err := workflow.ComputeBalance(database.DB.WithContext(r.Context()), uid)
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    map[string]interface{}{"balance": balance},
	})
}

// ListWithdrawalsHandler returns the worker's withdrawal history.
func ListWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit, offset := controllers.Pagination(r, 10)
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Withdrawal{}).Where("worker_id = ?", uid)
	if search != "" {
		query = query.Where("transaction_id LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal data"})
		return
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawal data"})
		return
	}

	resp := make([]map[string]interface{}, 0, len(withdrawals))
	for _, wd := range withdrawals {
		resp = append(resp, map[string]interface{}{
			"id":             wd.ID,
			"transaction_id": wd.TransactionID,
			"amount":         wd.Amount,
			"method":         wd.Method,
			"account_number": MaskAccountNumber(wd.AccountNumber),
			"status":         wd.Status,
			"note":           utils.GetStringValue(wd.Note),
			"created_at":     wd.CreatedAt,
			"processed_at":   wd.ProcessedAt,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       resp,
			"pagination": controllers.PageMeta(page, limit, totalRows),
		},
	})
}

// MaskAccountNumber hides the middle of a destination account number.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 8 {
		return accountNumber
	}
	return accountNumber[:4] + "****" + accountNumber[len(accountNumber)-4:]
}
