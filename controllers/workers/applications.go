package workers

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

type SubmitApplicationRequest struct {
	EstimatedCost float64 `json:"estimated_cost"`
	EstimatedDays int     `json:"estimated_days"`
	Proposal      string  `json:"proposal" validate:"required"`
}

// SubmitApplicationHandler places the worker's bid on an issue.
func SubmitApplicationHandler(w http.ResponseWriter, r *http.Request) {
	issueID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	var req SubmitApplicationRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	app, err := workflow.SubmitApplication(database.DB.WithContext(r.Context()), workflow.SubmitApplicationInput{
		IssueID:       uint(issueID),
		WorkerID:      uid,
		EstimatedCost: req.EstimatedCost,
		EstimatedDays: req.EstimatedDays,
		Proposal:      req.Proposal,
	})
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Application submitted",
		Data:    map[string]interface{}{"application": app},
	})
}

// DeleteApplicationHandler withdraws the worker's rejected bid; the issue
// reopens when no active bid remains.
func DeleteApplicationHandler(w http.ResponseWriter, r *http.Request) {
	issueID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := workflow.DeleteApplication(database.DB.WithContext(r.Context()), uint(issueID), uid); err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Application deleted"})
}

// ListMyApplicationsHandler returns the worker's bids with their issues.
func ListMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit, offset := controllers.Pagination(r, 10)
	status := r.URL.Query().Get("status")

	db := database.DB
	query := db.Model(&models.Application{}).Where("worker_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve applications"})
		return
	}

	var apps []models.Application
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&apps).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve applications"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       apps,
			"pagination": controllers.PageMeta(page, limit, totalRows),
		},
	})
}

// StartWorkHandler moves the worker's assigned issue into in_progress.
func StartWorkHandler(w http.ResponseWriter, r *http.Request) {
	issueID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	issue, err := workflow.StartWork(database.DB.WithContext(r.Context()), uint(issueID), uid)
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Work started",
		Data:    map[string]interface{}{"issue": issue},
	})
}
