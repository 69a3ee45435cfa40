package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Ragib100/LocalFix/utils"
	"github.com/Ragib100/LocalFix/workflow"
)

// WriteWorkflowError maps a workflow error to the conventional HTTP status:
// validation 400, ownership 403, missing 404, state conflicts 409 and
// anything else 500. The mapping lives here so the workflow package stays
// free of presentation concerns.
func WriteWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, workflow.ErrNotAssigned):
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, workflow.ErrInvalidAmount),
		errors.Is(err, workflow.ErrInvalidPriority),
		errors.Is(err, workflow.ErrFeedbackRequired),
		errors.Is(err, workflow.ErrPhotoRequired),
		errors.Is(err, workflow.ErrAccountRequired):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	case workflow.IsConflict(err):
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: err.Error()})
	default:
		log.Printf("[workflow] store failure: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "A system error occurred, please try again"})
	}
}
