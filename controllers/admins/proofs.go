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

type ProofResponse struct {
	ID          uint   `json:"id"`
	IssueID     uint   `json:"issue_id"`
	IssueTitle  string `json:"issue_title"`
	WorkerID    uint   `json:"worker_id"`
	WorkerName  string `json:"worker_name"`
	PhotoURL    string `json:"photo_url"`
	Description string `json:"description"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// GetPendingProofsHandler lists evidence waiting for review.
func GetPendingProofsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := controllers.Pagination(r, 20)

	db := database.DB

	type proofWithDetails struct {
		models.Proof
		IssueTitle string
		WorkerName string
	}

	query := db.Model(&models.Proof{}).
		Joins("JOIN issues ON proofs.issue_id = issues.id").
		Joins("JOIN users ON proofs.worker_id = users.id").
		Where("proofs.status = ?", models.ProofPending)

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve proofs"})
		return
	}

	var proofs []proofWithDetails
	if err := query.Select("proofs.*, issues.title as issue_title, users.name as worker_name").
		Order("proofs.created_at ASC").
		Limit(limit).Offset(offset).
		Find(&proofs).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to retrieve proofs"})
		return
	}

	resp := make([]ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		resp = append(resp, ProofResponse{
			ID:          p.ID,
			IssueID:     p.IssueID,
			IssueTitle:  p.IssueTitle,
			WorkerID:    p.WorkerID,
			WorkerName:  p.WorkerName,
			PhotoURL:    p.PhotoURL,
			Description: p.Description,
			Status:      string(p.Status),
			SubmittedAt: p.CreatedAt.Format(time.RFC3339),
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

type ReviewProofRequest struct {
	Feedback string `json:"feedback"`
}

// ApproveProofHandler approves pending evidence and resolves its issue.
func ApproveProofHandler(w http.ResponseWriter, r *http.Request) {
	reviewProof(w, r, true)
}

// RejectProofHandler rejects pending evidence and returns the issue to
// in_progress.
func RejectProofHandler(w http.ResponseWriter, r *http.Request) {
	reviewProof(w, r, false)
}

func reviewProof(w http.ResponseWriter, r *http.Request, approve bool) {
	proofID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid proof ID"})
		return
	}

	var req ReviewProofRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	adminID, ok := utils.GetAdminID(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB.WithContext(r.Context())
	var proof *models.Proof
	if approve {
		proof, err = workflow.ApproveProof(db, uint(proofID), adminID, req.Feedback)
	} else {
		proof, err = workflow.RejectProof(db, uint(proofID), adminID, req.Feedback)
	}
	if err != nil {
		controllers.WriteWorkflowError(w, err)
		return
	}

	message := "Proof approved, issue resolved"
	if !approve {
		message = "Proof rejected, issue returned to worker"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: message,
		Data:    map[string]interface{}{"proof": proof},
	})
}
