package admins

import (
	"net/http"
	"strconv"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"

	"github.com/gorilla/mux"
)

type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method" validate:"required"`
}

// RecordPaymentHandler pays the assigned worker for a resolved issue and
// closes it.
func RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
	issueID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	var req RecordPaymentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	adminID, ok := utils.GetAdminID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	payment, err := workflow.RecordPayment(database.DB.WithContext(r.Context()), workflow.RecordPaymentInput{
		IssueID: uint(issueID),
		AdminID: adminID,
		Amount:  req.Amount,
		Method:  req.Method,
	})
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Payment recorded, issue closed",
		Data:    map[string]interface{}{"payment": payment},
	})
}

// GetPaymentsHandler lists recorded payments with optional filters.
func GetPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := controllers.Pagination(r, 20)
	workerID := r.URL.Query().Get("worker_id")
	search := r.URL.Query().Get("search")

	db := database.DB
	query := db.Model(&models.Payment{})
	if workerID != "" {
		query = query.Where("worker_id = ?", workerID)
	}
	if search != "" {
		query = query.Where("transaction_id LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve payments"})
		return
	}

	var payments []models.Payment
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve payments"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       payments,
			"pagination": controllers.PageMeta(page, limit, totalRows),
		},
	})
}
