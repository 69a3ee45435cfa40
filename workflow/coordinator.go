package workflow

import (
	"errors"

	"github.com/Ragib100/LocalFix/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Trigger names an actor action that may move an issue through its lifecycle.
type Trigger string

const (
	TriggerBidSubmitted     Trigger = "bid_submitted"
	TriggerBidAccepted      Trigger = "bid_accepted"
	TriggerWorkStarted      Trigger = "work_started"
	TriggerProofSubmitted   Trigger = "proof_submitted"
	TriggerProofApproved    Trigger = "proof_approved"
	TriggerProofRejected    Trigger = "proof_rejected"
	TriggerPaymentCompleted Trigger = "payment_completed"
	// TriggerReopen is the compensating edge: when the last active
	// application on an applied issue is withdrawn, bidding reopens.
	TriggerReopen Trigger = "reopen"
)

// transitions is the full edge list. Every status write in this repository
// goes through advance, which consults this table.
var transitions = map[models.IssueStatus]map[Trigger]models.IssueStatus{
	models.IssueSubmitted: {
		TriggerBidSubmitted: models.IssueApplied,
	},
	models.IssueApplied: {
		TriggerBidAccepted: models.IssueAssigned,
		TriggerReopen:      models.IssueSubmitted,
	},
	models.IssueAssigned: {
		TriggerWorkStarted:    models.IssueInProgress,
		TriggerProofSubmitted: models.IssueUnderReview,
	},
	models.IssueInProgress: {
		TriggerProofSubmitted: models.IssueUnderReview,
	},
	models.IssueUnderReview: {
		TriggerProofApproved: models.IssueResolved,
		TriggerProofRejected: models.IssueInProgress,
	},
	models.IssueResolved: {
		TriggerPaymentCompleted: models.IssueClosed,
	},
	// closed is terminal
}

// NextStatus returns the status trig leads to from current, and whether the
// edge exists.
func NextStatus(current models.IssueStatus, trig Trigger) (models.IssueStatus, bool) {
	next, ok := transitions[current][trig]
	return next, ok
}

// lockIssue loads the issue row FOR UPDATE so concurrent actors serialize on
// it for the rest of the transaction.
func lockIssue(tx *gorm.DB, issueID uint) (*models.Issue, error) {
	var issue models.Issue
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&issue, issueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// advance applies trig to a locked issue. The UPDATE is still guarded on the
// status that was read, so a racing writer that slipped in between surfaces
// as ErrAlreadyProcessed instead of silently overwriting.
func advance(tx *gorm.DB, issue *models.Issue, trig Trigger, extra map[string]interface{}) error {
	next, ok := NextStatus(issue.Status, trig)
	if !ok {
		return &IllegalTransitionError{Current: issue.Status, Trigger: trig}
	}

	updates := map[string]interface{}{"status": next}
	for k, v := range extra {
		updates[k] = v
	}

	res := tx.Model(&models.Issue{}).
		Where("id = ? AND status = ?", issue.ID, issue.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}

	issue.Status = next
	return nil
}
