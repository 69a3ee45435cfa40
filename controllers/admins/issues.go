package admins

import (
	"net/http"
	"strconv"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"

	"github.com/gorilla/mux"
)

// GetIssuesHandler lists all issues with status/category/citizen filters.
func GetIssuesHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := controllers.Pagination(r, 20)
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")
	citizenID := r.URL.Query().Get("citizen_id")

	db := database.DB
	query := db.Model(&models.Issue{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if citizenID != "" {
		query = query.Where("citizen_id = ?", citizenID)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve issues"})
		return
	}

	var issues []models.Issue
	if err := query.Order("id DESC").Limit(limit).Offset(offset).Find(&issues).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve issues"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       issues,
			"pagination": controllers.PageMeta(page, limit, totalRows),
		},
	})
}

// DeleteIssueHandler removes an issue and its applications and proof.
func DeleteIssueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	if err := workflow.DeleteIssue(database.DB.WithContext(r.Context()), uint(id)); err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Issue deleted"})
}
