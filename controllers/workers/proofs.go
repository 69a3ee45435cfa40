package workers

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

type SubmitProofRequest struct {
	PhotoURL    string `json:"photo_url" validate:"required"`
	Description string `json:"description"`
}

// SubmitProofHandler files completion evidence for the worker's assigned
// issue and sends it to review.
func SubmitProofHandler(w http.ResponseWriter, r *http.Request) {
	issueID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid issue ID"})
		return
	}

	var req SubmitProofRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	proof, err := workflow.SubmitProof(database.DB.WithContext(r.Context()), workflow.SubmitProofInput{
		IssueID:     uint(issueID),
		WorkerID:    uid,
		PhotoURL:    req.PhotoURL,
		Description: req.Description,
	})
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Proof submitted for review",
		Data:    map[string]interface{}{"proof": proof},
	})
}
