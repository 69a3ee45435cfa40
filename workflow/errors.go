package workflow

import (
	"errors"
	"fmt"

	"github.com/Ragib100/LocalFix/models"
)

// Sentinel errors returned by workflow operations. Controllers map these to
// HTTP statuses; nothing in this package writes a response.
var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyProcessed    = errors.New("already processed by another request")
	ErrDuplicateBid        = errors.New("worker already applied to this issue")
	ErrIssueNotOpen        = errors.New("issue is no longer open for applications")
	ErrAlreadyAssigned     = errors.New("issue already has an assigned worker")
	ErrNotAssigned         = errors.New("worker is not assigned to this issue")
	ErrNotRejected         = errors.New("only rejected applications can be deleted")
	ErrProofSubmitted      = errors.New("proof already submitted for this issue")
	ErrIssueNotResolved    = errors.New("issue is not resolved")
	ErrProofNotApproved    = errors.New("proof has not been approved")
	ErrAlreadyPaid         = errors.New("payment already recorded for this issue")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrPhotoRequired       = errors.New("photo reference is required")
	ErrAccountRequired     = errors.New("destination account is required")
	ErrFeedbackRequired    = errors.New("feedback is required")
)

// IllegalTransitionError reports a trigger fired against an issue whose
// current status has no edge for it.
type IllegalTransitionError struct {
	Current models.IssueStatus
	Trigger Trigger
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: trigger %q not allowed from status %q", e.Trigger, e.Current)
}

// IsConflict reports whether err is an expected outcome of concurrent
// activity rather than a caller mistake.
func IsConflict(err error) bool {
	var ite *IllegalTransitionError
	if errors.As(err, &ite) {
		return true
	}
	switch {
	case errors.Is(err, ErrAlreadyProcessed),
		errors.Is(err, ErrDuplicateBid),
		errors.Is(err, ErrIssueNotOpen),
		errors.Is(err, ErrAlreadyAssigned),
		errors.Is(err, ErrNotRejected),
		errors.Is(err, ErrProofSubmitted),
		errors.Is(err, ErrIssueNotResolved),
		errors.Is(err, ErrProofNotApproved),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrInsufficientBalance):
		return true
	}
	return false
}
