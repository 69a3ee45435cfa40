package models

import "time"

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Payment is a payout to a worker for one resolved issue. The unique index on
// IssueID guarantees at most one payment per issue.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	IssueID       uint          `gorm:"not null;uniqueIndex" json:"issue_id"`
	CitizenID     uint          `gorm:"not null;index" json:"citizen_id"`
	WorkerID      uint          `gorm:"not null;index" json:"worker_id"`
	Amount        float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method        string        `gorm:"type:varchar(16);not null" json:"method"`
	Status        PaymentStatus `gorm:"type:enum('pending','processing','completed','failed','refunded');not null;default:'pending';index" json:"status"`
	TransactionID string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"transaction_id"`
	PaidAt        time.Time     `json:"paid_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
