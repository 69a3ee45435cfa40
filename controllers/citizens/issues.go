package citizens

import (
	"net/http"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"
)

type CreateIssueRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Priority    string  `json:"priority"`
	Location    string  `json:"location" validate:"required"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// CreateIssueHandler files a new issue for the authenticated citizen.
func CreateIssueHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateIssueRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	issue, err := workflow.CreateIssue(database.DB.WithContext(r.Context()), workflow.CreateIssueInput{
		CitizenID:   uid,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    models.IssuePriority(req.Priority),
		Location:    req.Location,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Issue reported",
		Data:    map[string]interface{}{"issue": issue},
	})
}

// ListMyIssuesHandler returns the citizen's own issues, newest first.
func ListMyIssuesHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	page, limit, offset := controllers.Pagination(r, 10)
	status := r.URL.Query().Get("status")

	db := database.DB
	query := db.Model(&models.Issue{}).Where("citizen_id = ?", uid)
	if status != "" {
		query = query.Where("status = ?", status)
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
