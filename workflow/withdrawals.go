package workflow

import (
	"errors"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComputeBalance returns a worker's available balance: completed payments
// minus withdrawals that are successful or still processing.
func ComputeBalance(db *gorm.DB, workerID uint) (float64, error) {
	return computeBalance(db, workerID)
}

func computeBalance(tx *gorm.DB, workerID uint) (float64, error) {
	var earned float64
	if err := tx.Model(&models.Payment{}).
		Where("worker_id = ? AND status = ?", workerID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&earned).Error; err != nil {
		return 0, err
	}

	var withdrawn float64
	if err := tx.Model(&models.Withdrawal{}).
		Where("worker_id = ? AND status IN ?", workerID, []models.WithdrawalStatus{
			models.WithdrawalSuccessful, models.WithdrawalProcessing,
		}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error; err != nil {
		return 0, err
	}

	return utils.Round2(earned - withdrawn), nil
}

type RequestWithdrawalInput struct {
	WorkerID      uint
	Amount        float64
	Method        string
	AccountNumber string
}

// RequestWithdrawal creates a processing withdrawal after checking the
// balance inside the same transaction. The worker's user row is locked FOR
// UPDATE first so two concurrent requests by the same worker serialize and
// cannot jointly overdraw.
func RequestWithdrawal(db *gorm.DB, in RequestWithdrawalInput) (*models.Withdrawal, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(in.AccountNumber) == "" {
		return nil, ErrAccountRequired
	}

	var wd models.Withdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		var worker models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&worker, in.WorkerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		balance, err := computeBalance(tx, in.WorkerID)
		if err != nil {
			return err
		}
		if in.Amount > balance {
			return ErrInsufficientBalance
		}

		wd = models.Withdrawal{
			WorkerID:      in.WorkerID,
			Amount:        utils.Round2(in.Amount),
			Method:        in.Method,
			AccountNumber: in.AccountNumber,
			Status:        models.WithdrawalProcessing,
			TransactionID: utils.GenerateTransactionID("WDR"),
		}
		return tx.Create(&wd).Error
	})
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

// ProcessWithdrawal settles a processing withdrawal as successful or failed.
// A failed withdrawal stops counting against the balance, which returns the
// amount to the worker without a compensating write.
func ProcessWithdrawal(db *gorm.DB, withdrawalID uint, adminID int64, success bool, note string) (*models.Withdrawal, error) {
	newStatus := models.WithdrawalSuccessful
	if !success {
		newStatus = models.WithdrawalFailed
		if strings.TrimSpace(note) == "" {
			return nil, ErrFeedbackRequired
		}
	}

	var wd models.Withdrawal
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wd, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       newStatus,
			"processed_by": adminID,
			"processed_at": now,
		}
		if note != "" {
			updates["note"] = note
		}

		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", wd.ID, models.WithdrawalProcessing).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		wd.Status = newStatus
		wd.ProcessedBy = &adminID
		wd.ProcessedAt = &now
		if note != "" {
			wd.Note = &note
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &wd, nil
}
