package workflow

import (
	"testing"

	"github.com/Ragib100/LocalFix/models"
)

func TestNextStatus_LegalEdges(t *testing.T) {
	cases := []struct {
		from models.IssueStatus
		trig Trigger
		want models.IssueStatus
	}{
		{models.IssueSubmitted, TriggerBidSubmitted, models.IssueApplied},
		{models.IssueApplied, TriggerBidAccepted, models.IssueAssigned},
		{models.IssueApplied, TriggerReopen, models.IssueSubmitted},
		{models.IssueAssigned, TriggerWorkStarted, models.IssueInProgress},
		{models.IssueAssigned, TriggerProofSubmitted, models.IssueUnderReview},
		{models.IssueInProgress, TriggerProofSubmitted, models.IssueUnderReview},
		{models.IssueUnderReview, TriggerProofApproved, models.IssueResolved},
		{models.IssueUnderReview, TriggerProofRejected, models.IssueInProgress},
		{models.IssueResolved, TriggerPaymentCompleted, models.IssueClosed},
	}
	for _, c := range cases {
		got, ok := NextStatus(c.from, c.trig)
		if !ok {
			t.Fatalf("NextStatus(%q, %q): edge missing", c.from, c.trig)
		}
		if got != c.want {
			t.Fatalf("NextStatus(%q, %q) = %q, want %q", c.from, c.trig, got, c.want)
		}
	}
}

func TestNextStatus_IllegalEdges(t *testing.T) {
	cases := []struct {
		from models.IssueStatus
		trig Trigger
	}{
		{models.IssueSubmitted, TriggerBidAccepted},
		{models.IssueSubmitted, TriggerProofSubmitted},
		{models.IssueSubmitted, TriggerPaymentCompleted},
		{models.IssueApplied, TriggerProofApproved},
		{models.IssueAssigned, TriggerBidAccepted},
		{models.IssueInProgress, TriggerWorkStarted},
		{models.IssueInProgress, TriggerProofApproved},
		{models.IssueUnderReview, TriggerPaymentCompleted},
		{models.IssueResolved, TriggerProofApproved},
	}
	for _, c := range cases {
		if next, ok := NextStatus(c.from, c.trig); ok {
			t.Fatalf("NextStatus(%q, %q) = %q, want no edge", c.from, c.trig, next)
		}
	}
}

func TestNextStatus_ClosedIsTerminal(t *testing.T) {
	triggers := []Trigger{
		TriggerBidSubmitted, TriggerBidAccepted, TriggerWorkStarted,
		TriggerProofSubmitted, TriggerProofApproved, TriggerProofRejected,
		TriggerPaymentCompleted, TriggerReopen,
	}
	for _, trig := range triggers {
		if next, ok := NextStatus(models.IssueClosed, trig); ok {
			t.Fatalf("closed issue moved to %q via %q", next, trig)
		}
	}
}

func TestNextStatus_RejectedProofAllowsResubmission(t *testing.T) {
	// rejection sends the issue back to in_progress, from where the proof
	// can be submitted again
	back, ok := NextStatus(models.IssueUnderReview, TriggerProofRejected)
	if !ok || back != models.IssueInProgress {
		t.Fatalf("proof rejection: got (%q, %v)", back, ok)
	}
	again, ok := NextStatus(back, TriggerProofSubmitted)
	if !ok || again != models.IssueUnderReview {
		t.Fatalf("resubmission after rejection: got (%q, %v)", again, ok)
	}
}
