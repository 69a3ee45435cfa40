package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Ragib100/LocalFix/models"
)

func TestIsConflict(t *testing.T) {
	conflicts := []error{
		ErrAlreadyProcessed,
		ErrDuplicateBid,
		ErrIssueNotOpen,
		ErrAlreadyAssigned,
		ErrNotRejected,
		ErrProofSubmitted,
		ErrIssueNotResolved,
		ErrProofNotApproved,
		ErrAlreadyPaid,
		ErrInsufficientBalance,
		&IllegalTransitionError{Current: models.IssueClosed, Trigger: TriggerReopen},
		fmt.Errorf("accept application: %w", ErrAlreadyAssigned),
	}
	for _, err := range conflicts {
		if !IsConflict(err) {
			t.Fatalf("IsConflict(%v) = false, want true", err)
		}
	}

	nonConflicts := []error{
		nil,
		ErrNotFound,
		ErrNotAssigned,
		ErrInvalidAmount,
		ErrFeedbackRequired,
		errors.New("dial tcp: connection refused"),
	}
	for _, err := range nonConflicts {
		if IsConflict(err) {
			t.Fatalf("IsConflict(%v) = true, want false", err)
		}
	}
}

func TestIllegalTransitionError_Error(t *testing.T) {
	err := &IllegalTransitionError{Current: models.IssueResolved, Trigger: TriggerProofApproved}
	msg := err.Error()
	if !strings.Contains(msg, string(models.IssueResolved)) || !strings.Contains(msg, string(TriggerProofApproved)) {
		t.Fatalf("error message missing context: %q", msg)
	}
}
