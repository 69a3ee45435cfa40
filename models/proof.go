package models

import "time"

type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

// Proof is the completion evidence for an issue. The unique index keeps it to
// one row per issue; a rejected proof is reused in place on resubmission.
type Proof struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	IssueID     uint        `gorm:"not null;uniqueIndex" json:"issue_id"`
	WorkerID    uint        `gorm:"not null;index" json:"worker_id"`
	PhotoURL    string      `gorm:"type:varchar(255);not null" json:"photo_url"`
	Description string      `gorm:"type:text" json:"description"`
	Status      ProofStatus `gorm:"type:enum('pending','approved','rejected');not null;default:'pending';index" json:"status"`
	ReviewedBy  *int64      `gorm:"index" json:"reviewed_by,omitempty"`
	Feedback    *string     `gorm:"type:text" json:"feedback,omitempty"`
	VerifiedAt  *time.Time  `json:"verified_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Proof) TableName() string {
	return "proofs"
}
