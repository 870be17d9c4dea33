package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields ErrorSet `json:"fields,omitempty"` // field-keyed validation details
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithDomainError picks the status from the error taxonomy and,
// when the failure is an ErrorSet, re-surfaces it field-by-field so the
// caller can attach each message to its input.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	var es ErrorSet
	if errors.As(err, &es) {
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  ErrValidation.Error(),
			Fields: es,
		})
		return
	}
	RespondWithError(w, HTTPStatusFromError(err), err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
