package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/workflow"
)

func TestWriteWorkflowError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{workflow.ErrNotFound, http.StatusNotFound},
		{workflow.ErrNotAssigned, http.StatusForbidden},
		{workflow.ErrInvalidAmount, http.StatusBadRequest},
		{workflow.ErrInvalidPriority, http.StatusBadRequest},
		{workflow.ErrFeedbackRequired, http.StatusBadRequest},
		{workflow.ErrPhotoRequired, http.StatusBadRequest},
		{workflow.ErrAccountRequired, http.StatusBadRequest},
		{workflow.ErrDuplicateBid, http.StatusConflict},
		{workflow.ErrIssueNotOpen, http.StatusConflict},
		{workflow.ErrAlreadyAssigned, http.StatusConflict},
		{workflow.ErrAlreadyProcessed, http.StatusConflict},
		{workflow.ErrInsufficientBalance, http.StatusConflict},
		{&workflow.IllegalTransitionError{Current: models.IssueClosed, Trigger: workflow.TriggerReopen}, http.StatusConflict},
		{fmt.Errorf("submit proof: %w", workflow.ErrProofSubmitted), http.StatusConflict},
		{fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		WriteWorkflowError(rec, c.err)
		if rec.Code != c.want {
			t.Fatalf("WriteWorkflowError(%v): status %d, want %d", c.err, rec.Code, c.want)
		}

		var body map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if success, _ := body["success"].(bool); success {
			t.Fatalf("WriteWorkflowError(%v): success=true in body", c.err)
		}
	}
}

func TestWriteWorkflowError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteWorkflowError(rec, fmt.Errorf("Error 1045: access denied for user 'root'"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	msg, _ := body["message"].(string)
	if msg == "" || msg == "Error 1045: access denied for user 'root'" {
		t.Fatalf("internal error leaked to client: %q", msg)
	}
}
