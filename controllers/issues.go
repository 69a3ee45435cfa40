package controllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Pagination parses ?page and ?limit with sane defaults.
func Pagination(r *http.Request, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

// PageMeta builds the pagination block used by every list response.
func PageMeta(page, limit int, totalRows int64) map[string]interface{} {
	return map[string]interface{}{
		"page":        page,
		"limit":       limit,
		"total_rows":  totalRows,
		"total_pages": int(math.Ceil(float64(totalRows) / float64(limit))),
	}
}

// ListOpenIssuesHandler returns issues still open for bidding. Public so
// workers can browse before logging in.
func ListOpenIssuesHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := Pagination(r, 20)
	category := r.URL.Query().Get("category")
	priority := r.URL.Query().Get("priority")

	db := database.DB
	query := db.Model(&models.Issue{}).
		Where("status IN ?", []models.IssueStatus{models.IssueSubmitted, models.IssueApplied})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve issues"})
		return
	}

	var issues []models.Issue
	if err := query.Order("FIELD(priority,'urgent','high','medium','low'), created_at DESC").
		Limit(limit).Offset(offset).Find(&issues).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve issues"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data":       issues,
			"pagination": PageMeta(page, limit, totalRows),
		},
	})
}

// GetIssueHandler returns one issue with its applications and proof.
func GetIssueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	db := database.DB

	var issue models.Issue
	if err := db.First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Issue not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve issue"})
		return
	}

	var applications []models.Application
	db.Where("issue_id = ?", issue.ID).Order("created_at ASC").Find(&applications)

	var proof *models.Proof
	var p models.Proof
	if err := db.Where("issue_id = ?", issue.ID).First(&p).Error; err == nil {
		proof = &p
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"issue":        issue,
			"applications": applications,
			"proof":        proof,
		},
	})
}
