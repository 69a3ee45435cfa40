package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rivalFeedback is stamped onto every losing bid when one is accepted.
const rivalFeedback = "Another application was selected for this issue"

type SubmitApplicationInput struct {
	IssueID       uint
	WorkerID      uint
	EstimatedCost float64
	EstimatedDays int
	Proposal      string
}

// SubmitApplication records a worker's bid. The first bid on a submitted
// issue moves it to applied; later bids leave the status alone.
func SubmitApplication(db *gorm.DB, in SubmitApplicationInput) (*models.Application, error) {
	if in.EstimatedCost <= 0 {
		return nil, ErrInvalidAmount
	}

	var app models.Application
	err := db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, in.IssueID)
		if err != nil {
			return err
		}
		if issue.Status != models.IssueSubmitted && issue.Status != models.IssueApplied {
			return ErrIssueNotOpen
		}

		var existing models.Application
		err = tx.Where("issue_id = ? AND worker_id = ?", in.IssueID, in.WorkerID).First(&existing).Error
		if err == nil {
			return ErrDuplicateBid
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		app = models.Application{
			IssueID:       in.IssueID,
			WorkerID:      in.WorkerID,
			EstimatedCost: in.EstimatedCost,
			EstimatedDays: in.EstimatedDays,
			Proposal:      strings.TrimSpace(in.Proposal),
			Status:        models.ApplicationSubmitted,
		}
		if err := tx.Create(&app).Error; err != nil {
			// unique index on (issue_id, worker_id) backstops the check above
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateBid
			}
			return err
		}

		if issue.Status == models.IssueSubmitted {
			return advance(tx, issue, TriggerBidSubmitted, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// AcceptApplication marks one bid accepted, assigns its worker to the issue,
// and rejects every rival bid, all in one transaction. No reader ever
// observes two submitted bids after this returns.
func AcceptApplication(db *gorm.DB, issueID, applicationID uint, adminID int64, feedback string) (*models.Application, error) {
	var app models.Application
	err := db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, issueID)
		if err != nil {
			return err
		}
		if issue.AssignedWorkerID != nil {
			return ErrAlreadyAssigned
		}

		if err := tx.Where("id = ? AND issue_id = ?", applicationID, issueID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if app.Status != models.ApplicationSubmitted {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationSubmitted).
			Updates(map[string]interface{}{
				"status":      models.ApplicationAccepted,
				"reviewed_by": adminID,
				"feedback":    feedback,
				"reviewed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		// cascade: every other non-terminal bid on this issue loses
		if err := tx.Model(&models.Application{}).
			Where("issue_id = ? AND id <> ? AND status = ?", issueID, app.ID, models.ApplicationSubmitted).
			Updates(map[string]interface{}{
				"status":      models.ApplicationRejected,
				"reviewed_by": adminID,
				"feedback":    rivalFeedback,
				"reviewed_at": now,
			}).Error; err != nil {
			return err
		}

		if err := advance(tx, issue, TriggerBidAccepted, map[string]interface{}{
			"assigned_worker_id": app.WorkerID,
		}); err != nil {
			return err
		}

		app.Status = models.ApplicationAccepted
		app.ReviewedBy = &adminID
		app.Feedback = &feedback
		app.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// RejectApplication rejects a single submitted bid. Feedback is mandatory so
// the worker learns why.
func RejectApplication(db *gorm.DB, issueID, applicationID uint, adminID int64, feedback string) (*models.Application, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, ErrFeedbackRequired
	}

	var app models.Application
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND issue_id = ?", applicationID, issueID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, models.ApplicationSubmitted).
			Updates(map[string]interface{}{
				"status":      models.ApplicationRejected,
				"reviewed_by": adminID,
				"feedback":    feedback,
				"reviewed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		app.Status = models.ApplicationRejected
		app.ReviewedBy = &adminID
		app.Feedback = &feedback
		app.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// DeleteApplication removes a worker's rejected bid. When the last active
// bid on an applied issue disappears, the issue reopens for bidding.
func DeleteApplication(db *gorm.DB, issueID, workerID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, issueID)
		if err != nil {
			return err
		}

		var app models.Application
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("issue_id = ? AND worker_id = ?", issueID, workerID).
			First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if app.Status != models.ApplicationRejected {
			return ErrNotRejected
		}

		if err := tx.Delete(&models.Application{}, app.ID).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Application{}).
			Where("issue_id = ? AND status <> ?", issueID, models.ApplicationRejected).
			Count(&active).Error; err != nil {
			return err
		}
		if active == 0 && issue.Status == models.IssueApplied {
			return advance(tx, issue, TriggerReopen, nil)
		}
		return nil
	})
}
