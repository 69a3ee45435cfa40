package admins

import (
	"net/http"
	"strconv"

	"github.com/Ragib100/LocalFix/controllers"
	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"

	"github.com/gorilla/mux"
)

type ReviewApplicationRequest struct {
	IssueID  uint   `json:"issue_id"`
	Feedback string `json:"feedback"`
}

// AcceptApplicationHandler accepts one bid, assigns its worker and rejects
// every rival bid in the same transaction.
func AcceptApplicationHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid application ID"})
		return
	}

	var req ReviewApplicationRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.IssueID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "issue_id is required"})
		return
	}

	adminID, ok := utils.GetAdminID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	app, err := workflow.AcceptApplication(database.DB.WithContext(r.Context()), req.IssueID, uint(appID), adminID, req.Feedback)
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Application accepted, worker assigned",
		Data:    map[string]interface{}{"application": app},
	})
}

// RejectApplicationHandler rejects a single bid with mandatory feedback.
func RejectApplicationHandler(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid application ID"})
		return
	}

	var req ReviewApplicationRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.IssueID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "issue_id is required"})
		return
	}

	adminID, ok := utils.GetAdminID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	app, err := workflow.RejectApplication(database.DB.WithContext(r.Context()), req.IssueID, uint(appID), adminID, req.Feedback)
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Application rejected",
		Data:    map[string]interface{}{"application": app},
	})
}
