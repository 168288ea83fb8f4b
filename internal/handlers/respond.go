// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers for the OIKOS API.
// Every response uses a common JSON envelope with a success flag and a
// human-readable message.
package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// envelope is the common shape of every API response.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *pagination       `json:"pagination,omitempty"`
}

// pagination describes the page window of a list response.
type pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func newPagination(page, perPage, total int) *pagination {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return &pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondData writes a success envelope with a payload.
func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope with a message and optional payload.
func respondMessage(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// respondList writes a success envelope with a paginated list payload.
func respondList(w http.ResponseWriter, data any, page, perPage, total int) {
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Pagination: newPagination(page, perPage, total),
	})
}

// respondError writes a failure envelope with a message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// respondValidation writes a 422 envelope with per-field error messages.
func respondValidation(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, envelope{
		Success: false,
		Message: "The given data was invalid.",
		Errors:  errs,
	})
}

// respondInternal logs the error and writes a generic 500 envelope so
// internals never leak to clients.
func respondInternal(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	respondError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func respondNotFound(w http.ResponseWriter, what string) {
	respondError(w, http.StatusNotFound, what+" not found.")
}

// decodeJSON reads a JSON request body into dst, capping it at 1 MB.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}
