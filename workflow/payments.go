package workflow

import (
	"errors"
	"time"

	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"

	"gorm.io/gorm"
)

type RecordPaymentInput struct {
	IssueID uint
	AdminID int64
	Amount  float64
	Method  string
}

// RecordPayment writes the payout for a resolved issue and closes it. There
// is no gateway callback in this flow: the payment is recorded as already
// completed, so creation and completion are one step.
func RecordPayment(db *gorm.DB, in RecordPaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		issue, err := lockIssue(tx, in.IssueID)
		if err != nil {
			return err
		}
		if issue.Status != models.IssueResolved {
			return ErrIssueNotResolved
		}
		if issue.AssignedWorkerID == nil {
			return ErrNotAssigned
		}

		var proof models.Proof
		if err := tx.Where("issue_id = ?", in.IssueID).First(&proof).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProofNotApproved
			}
			return err
		}
		if proof.Status != models.ProofApproved {
			return ErrProofNotApproved
		}

		var existing models.Payment
		err = tx.Where("issue_id = ?", in.IssueID).First(&existing).Error
		if err == nil {
			return ErrAlreadyPaid
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		payment = models.Payment{
			IssueID:       in.IssueID,
			CitizenID:     issue.CitizenID,
			WorkerID:      *issue.AssignedWorkerID,
			Amount:        utils.Round2(in.Amount),
			Method:        in.Method,
			Status:        models.PaymentCompleted,
			TransactionID: utils.GenerateTransactionID("PAY"),
			PaidAt:        time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPaid
			}
			return err
		}

		return advance(tx, issue, TriggerPaymentCompleted, nil)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
