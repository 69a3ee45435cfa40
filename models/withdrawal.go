package models

import "time"

type WithdrawalStatus string

const (
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalSuccessful WithdrawalStatus = "successful"
	WithdrawalFailed     WithdrawalStatus = "failed"
)

// Withdrawal is a worker's request to cash out earned balance. Both
// processing and successful rows count against the available balance.
type Withdrawal struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	WorkerID      uint             `gorm:"not null;index" json:"worker_id"`
	Amount        float64          `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method        string           `gorm:"type:varchar(16);not null" json:"method"`
	AccountNumber string           `gorm:"type:varchar(64);not null" json:"account_number"`
	Status        WithdrawalStatus `gorm:"type:enum('processing','successful','failed');not null;default:'processing';index" json:"status"`
	TransactionID string           `gorm:"type:varchar(64);not null;uniqueIndex" json:"transaction_id"`
	Note          *string          `gorm:"type:text" json:"note,omitempty"`
	ProcessedBy   *int64           `json:"processed_by,omitempty"`
	ProcessedAt   *time.Time       `json:"processed_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
