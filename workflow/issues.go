package workflow

import (
	"strings"

	"github.com/Ragib100/LocalFix/models"

	"gorm.io/gorm"
)

type CreateIssueInput struct {
	CitizenID   uint
	Title       string
	Description string
	Category    string
	Priority    models.IssuePriority
	Location    string
	PhotoURL    *string
}

var validPriorities = map[models.IssuePriority]bool{
	models.PriorityLow:    true,
	models.PriorityMedium: true,
	models.PriorityHigh:   true,
	models.PriorityUrgent: true,
}

// CreateIssue inserts a new issue in the initial submitted status.
func CreateIssue(db *gorm.DB, in CreateIssueInput) (*models.Issue, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !validPriorities[in.Priority] {
		return nil, ErrInvalidPriority
	}

	issue := models.Issue{
		CitizenID:   in.CitizenID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Priority:    in.Priority,
		Location:    strings.TrimSpace(in.Location),
		PhotoURL:    in.PhotoURL,
		Status:      models.IssueSubmitted,
	}
	if err := db.Create(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// StartWork moves an assigned issue to in_progress. Only the assigned worker
// may start work.
func StartWork(db *gorm.DB, issueID, workerID uint) (*models.Issue, error) {
	var issue *models.Issue
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		issue, err = lockIssue(tx, issueID)
		if err != nil {
			return err
		}
		if issue.AssignedWorkerID == nil || *issue.AssignedWorkerID != workerID {
			return ErrNotAssigned
		}
		return advance(tx, issue, TriggerWorkStarted, nil)
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// DeleteIssue removes an issue and its dependent rows. Administrative path;
// payments are kept for the ledger.
func DeleteIssue(db *gorm.DB, issueID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, issueID)
		if err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("issue_id = ?", issue.ID).Delete(&models.Proof{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Issue{}, issue.ID).Error
	})
}
