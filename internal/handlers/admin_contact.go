// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"oikos/internal/models"
	"oikos/internal/store"
)

// ContactsList returns contact messages with aggregate stats, newest
// first.
func (a *Admin) ContactsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := store.ContactFilter{
		Status: models.ContactStatus(q.Get("status")),
		Search: q.Get("search"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.PerPage > 50 {
		f.PerPage = 50
	}

	items, total, err := a.contactStore.List(f)
	if err != nil {
		respondInternal(w, "list contacts failed", err)
		return
	}
	stats, err := a.contactStore.Stats()
	if err != nil {
		respondInternal(w, "contact stats failed", err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       map[string]any{"contacts": items, "stats": stats},
		Pagination: newPagination(f.Page, f.PerPage, total),
	})
}

// ContactShow returns one message and marks it read on first open.
func (a *Admin) ContactShow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := a.contactStore.MarkRead(id)
	if err != nil {
		respondInternal(w, "contact lookup failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Contact")
		return
	}
	respondData(w, http.StatusOK, c)
}

// ContactUpdate changes a message's handling status and internal notes.
func (a *Admin) ContactUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	status := models.ContactStatus(req.Status)
	switch status {
	case models.ContactNew, models.ContactRead, models.ContactReplied, models.ContactArchived:
	default:
		respondValidation(w, map[string]string{"status": "Status must be new, read, replied, or archived."})
		return
	}
	if req.Notes != nil && len(*req.Notes) > maxNotesLen {
		respondValidation(w, map[string]string{"notes": "Notes are too long."})
		return
	}

	c, err := a.contactStore.UpdateStatus(id, status, req.Notes)
	if err != nil {
		respondInternal(w, "update contact failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Contact")
		return
	}
	respondMessage(w, http.StatusOK, "Contact updated.", c)
}

// ContactMarkReplied stamps a message as replied.
func (a *Admin) ContactMarkReplied(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := a.contactStore.MarkReplied(id)
	if err != nil {
		respondInternal(w, "mark replied failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Contact")
		return
	}
	respondMessage(w, http.StatusOK, "Contact marked as replied.", c)
}

// ContactDelete removes a message.
func (a *Admin) ContactDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := a.contactStore.Delete(id); err != nil {
		respondInternal(w, "delete contact failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Contact deleted.", nil)
}
