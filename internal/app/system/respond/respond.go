// Package respond writes the JSON envelopes used by every API handler and
// maps service errors onto HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/projecthubhq/projecthub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// JSON writes v with the given status. Handlers pass structs carrying a
// `success` field so every response keeps the {success: bool, ...} shape.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// payload is the envelope for every success response.
type payload struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// OK writes a 200 success envelope around v.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, payload{Success: true, Data: v})
}

// Created writes a 201 success envelope around v.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, payload{Success: true, Data: v})
}

// failure is the envelope for every error response.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Fail writes an error envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, failure{Success: false, Message: message})
}

// Error classifies err through the apperr taxonomy and writes the matching
// response. Client errors echo the reason; storage failures get a generic
// message and a zap error entry so internals never leak to callers.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Fail(w, http.StatusBadRequest, reason(err, apperr.ErrValidation))
	case errors.Is(err, apperr.ErrNotFound):
		Fail(w, http.StatusNotFound, reason(err, apperr.ErrNotFound))
	case errors.Is(err, apperr.ErrPermissionDenied):
		Fail(w, http.StatusForbidden, reason(err, apperr.ErrPermissionDenied))
	default:
		log.Error("request failed", zap.Error(err))
		Fail(w, http.StatusInternalServerError, "internal server error")
	}
}

// reason strips the sentinel suffix that apperr wrapping appends, leaving
// the human-readable part ("project: not found" → "project not found").
func reason(err error, sentinel error) string {
	msg := err.Error()
	if cut, ok := strings.CutSuffix(msg, ": "+sentinel.Error()); ok {
		return cut + " " + sentinel.Error()
	}
	return msg
}
