// Package apierr writes the tagged JSON error envelope used by every
// API handler. Each admission failure kind maps to one distinct message
// so end users learn which constraint blocked them instead of a generic
// failure.
package apierr

import (
	"encoding/json"
	"net/http"
)

// Error kinds. These are the stable wire tags the UI switches on.
const (
	KindValidation  = "validation"
	KindEligibility = "eligibility"
	KindCapacity    = "capacity"
	KindDuplicate   = "duplicate"
	KindState       = "state"
	KindNotFound    = "not_found"
	KindStore       = "store"
)

type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(kind string) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindEligibility, KindState:
		return http.StatusUnprocessableEntity
	case KindCapacity, KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Write emits the error envelope for the given kind and message.
func Write(w http.ResponseWriter, kind, message string) {
	WriteField(w, kind, message, "")
}

// WriteField is Write with the offending form field named, for
// validation errors.
func WriteField(w http.ResponseWriter, kind, message, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(kind))
	_ = json.NewEncoder(w).Encode(envelope{Error: body{Kind: kind, Message: message, Field: field}})
}

// WriteStore emits the transient store-failure envelope. The message is
// fixed: store internals are logged, not surfaced.
func WriteStore(w http.ResponseWriter) {
	Write(w, KindStore, "A database error occurred. Please try again.")
}

// JSON writes a success payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
