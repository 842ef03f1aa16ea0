// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Inkwell API.
// Handlers are grouped by concern (posts, auth, users, applications,
// categories) and receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/blog"
	"inkwell/internal/store"
)

// errorBody is the JSON envelope for every failure response.
type errorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Error writes the API error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Message: message, Status: status})
}

// respondError maps a domain error to its HTTP status. Unclassified errors
// become opaque 500s; the detail goes to the log, not the client.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case blog.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, blog.ErrForbidden):
		Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, blog.ErrNotFound):
		Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, blog.ErrConflict), errors.Is(err, store.ErrDuplicate):
		Error(w, http.StatusConflict, "conflict")
	default:
		slog.Error("request failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// oversized payloads.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &blog.ValidationError{Msg: "malformed request body"}
	}
	return nil
}
