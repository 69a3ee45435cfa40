package models

import "time"

type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// Application is a worker's bid on an issue. One row per (issue, worker);
// at most one accepted row per issue.
type Application struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	IssueID       uint              `gorm:"not null;uniqueIndex:uniq_issue_worker" json:"issue_id"`
	WorkerID      uint              `gorm:"not null;uniqueIndex:uniq_issue_worker" json:"worker_id"`
	EstimatedCost float64           `gorm:"type:decimal(15,2);not null" json:"estimated_cost"`
	EstimatedDays int               `gorm:"not null" json:"estimated_days"`
	Proposal      string            `gorm:"type:text" json:"proposal"`
	Status        ApplicationStatus `gorm:"type:enum('submitted','accepted','rejected');not null;default:'submitted';index" json:"status"`
	ReviewedBy    *int64            `gorm:"index" json:"reviewed_by,omitempty"`
	Feedback      *string           `gorm:"type:text" json:"feedback,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (Application) TableName() string {
	return "applications"
}
