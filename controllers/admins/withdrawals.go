package admins

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"

	"github.com/gorilla/mux"
)

type WithdrawalResponse struct {
	ID            uint    `json:"id"`
	WorkerID      uint    `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	AccountNumber string  `json:"account_number"`
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// GetWithdrawalsHandler lists withdrawal requests with optional filters.
func GetWithdrawalsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := controllers.Pagination(r, 20)
	status := r.URL.Query().Get("status")
	workerID := r.URL.Query().Get("worker_id")
	search := r.URL.Query().Get("search")

	db := database.DB
	query := db.Model(&models.Withdrawal{}).
		Joins("JOIN users ON withdrawals.worker_id = users.id")

	if status != "" {
		query = query.Where("withdrawals.status = ?", status)
	}
	if workerID != "" {
		query = query.Where("withdrawals.worker_id = ?", workerID)
	}
	if search != "" {
		query = query.Where("withdrawals.transaction_id LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	type withdrawalWithDetails struct {
		models.Withdrawal
		WorkerName string
	}

	var withdrawals []withdrawalWithDetails
	if err := query.Select("withdrawals.*, users.name as worker_name").
		Order("withdrawals.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&withdrawals).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve withdrawals"})
		return
	}

	resp := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		resp = append(resp, WithdrawalResponse{
			ID:            wd.ID,
			WorkerID:      wd.WorkerID,
			WorkerName:    wd.WorkerName,
			Amount:        wd.Amount,
			Method:        wd.Method,
			AccountNumber: wd.AccountNumber,
			TransactionID: wd.TransactionID,
			Status:        string(wd.Status),
			CreatedAt:     wd.CreatedAt.Format(time.RFC3339),
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

type ProcessWithdrawalRequest struct {
	Success bool   `json:"success"`
	Note    string `json:"note"`
}

// ProcessWithdrawalHandler settles a processing withdrawal as successful or
// failed. A failed settlement needs a note for the worker.
func ProcessWithdrawalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid withdrawal ID"})
		return
	}

	var req ProcessWithdrawalRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	adminID, ok := utils.GetAdminID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	wd, err := workflow.ProcessWithdrawal(database.DB.WithContext(r.Context()), uint(id), adminID, req.Success, req.Note)
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	message := "Withdrawal marked successful"
	if !req.Success {
		message = "Withdrawal marked failed, amount returned to balance"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: message,
		Data:    map[string]interface{}{"withdrawal": wd},
	})
}
