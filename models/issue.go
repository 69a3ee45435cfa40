package models

import "time"

// IssueStatus is the lifecycle state of an issue. Transitions are applied
// only through the workflow package.
type IssueStatus string

const (
	IssueSubmitted   IssueStatus = "submitted"
	IssueApplied     IssueStatus = "applied"
	IssueAssigned    IssueStatus = "assigned"
	IssueInProgress  IssueStatus = "in_progress"
	IssueUnderReview IssueStatus = "under_review"
	IssueResolved    IssueStatus = "resolved"
	IssueClosed      IssueStatus = "closed"
)

type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

type Issue struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	CitizenID        uint          `gorm:"not null;index" json:"citizen_id"`
	Title            string        `gorm:"type:varchar(150);not null" json:"title"`
	Description      string        `gorm:"type:text" json:"description"`
	Category         string        `gorm:"type:varchar(50);not null" json:"category"`
	Priority         IssuePriority `gorm:"type:enum('low','medium','high','urgent');not null;default:'medium'" json:"priority"`
	Location         string        `gorm:"type:varchar(255);not null" json:"location"`
	PhotoURL         *string       `gorm:"type:varchar(255)" json:"photo_url,omitempty"`
	Status           IssueStatus   `gorm:"type:enum('submitted','applied','assigned','in_progress','under_review','resolved','closed');not null;default:'submitted';index" json:"status"`
	AssignedWorkerID *uint         `gorm:"index" json:"assigned_worker_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Issue) TableName() string {
	return "issues"
}
