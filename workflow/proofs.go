package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/models"

	"gorm.io/gorm"
)

type SubmitProofInput struct {
	IssueID     uint
	WorkerID    uint
	PhotoURL    string
	Description string
}

// SubmitProof files completion evidence for an issue and moves it to
// under_review. Only the assigned worker may submit, and only while the
// issue is assigned or in_progress.
//
// There is a single proof row per issue: a fresh submission inserts it, and
// a resubmission after rejection reuses the rejected row via a
// status-guarded update. A pending or approved proof blocks resubmission.
func SubmitProof(db *gorm.DB, in SubmitProofInput) (*models.Proof, error) {
	if strings.TrimSpace(in.PhotoURL) == "" {
		return nil, ErrPhotoRequired
	}

	var proof models.Proof
	err := db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, in.IssueID)
		if err != nil {
			return err
		}
		if issue.AssignedWorkerID == nil || *issue.AssignedWorkerID != in.WorkerID {
			return ErrNotAssigned
		}
		if issue.Status != models.IssueAssigned && issue.Status != models.IssueInProgress {
			return &IllegalTransitionError{Current: issue.Status, Trigger: TriggerProofSubmitted}
		}

		var existing models.Proof
		err = tx.Where("issue_id = ?", in.IssueID).First(&existing).Error
		switch {
		case err == nil && existing.Status == models.ProofRejected:
			// second chance: reset the row in place
			res := tx.Model(&models.Proof{}).
				Where("id = ? AND status = ?", existing.ID, models.ProofRejected).
				Updates(map[string]interface{}{
					"photo_url":   in.PhotoURL,
					"description": strings.TrimSpace(in.Description),
					"status":      models.ProofPending,
					"reviewed_by": nil,
					"feedback":    nil,
					"verified_at": nil,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrAlreadyProcessed
			}
			proof = existing
			proof.PhotoURL = in.PhotoURL
			proof.Description = strings.TrimSpace(in.Description)
			proof.Status = models.ProofPending
			proof.ReviewedBy = nil
			proof.Feedback = nil
			proof.VerifiedAt = nil
		case err == nil:
			return ErrProofSubmitted
		case errors.Is(err, gorm.ErrRecordNotFound):
			proof = models.Proof{
				IssueID:     in.IssueID,
				WorkerID:    in.WorkerID,
				PhotoURL:    in.PhotoURL,
				Description: strings.TrimSpace(in.Description),
				Status:      models.ProofPending,
			}
			if err := tx.Create(&proof).Error; err != nil {
				// unique index on issue_id closes the race between two
				// concurrent first submissions
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrProofSubmitted
				}
				return err
			}
		default:
			return err
		}

		return advance(tx, issue, TriggerProofSubmitted, nil)
	})
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

// ApproveProof accepts pending evidence and resolves the issue.
func ApproveProof(db *gorm.DB, proofID uint, adminID int64, feedback string) (*models.Proof, error) {
	return reviewProof(db, proofID, adminID, feedback, true)
}

// RejectProof declines pending evidence and sends the issue back to
// in_progress so the worker can try again.
func RejectProof(db *gorm.DB, proofID uint, adminID int64, feedback string) (*models.Proof, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, ErrFeedbackRequired
	}
	return reviewProof(db, proofID, adminID, feedback, false)
}

func reviewProof(db *gorm.DB, proofID uint, adminID int64, feedback string, approve bool) (*models.Proof, error) {
	newStatus := models.ProofApproved
	trig := TriggerProofApproved
	if !approve {
		newStatus = models.ProofRejected
		trig = TriggerProofRejected
	}

	var proof models.Proof
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proof, proofID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		issue, err := lockIssue(tx, proof.IssueID)
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Proof{}).
			Where("id = ? AND status = ?", proof.ID, models.ProofPending).
			Updates(map[string]interface{}{
				"status":      newStatus,
				"reviewed_by": adminID,
				"feedback":    feedback,
				"verified_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if err := advance(tx, issue, trig, nil); err != nil {
			return err
		}

		proof.Status = newStatus
		proof.ReviewedBy = &adminID
		proof.Feedback = &feedback
		proof.VerifiedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &proof, nil
}
