// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"oikos/internal/media"
	"oikos/internal/middleware"
	"oikos/internal/models"
	"oikos/internal/storage"
	"oikos/internal/store"
)

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	projectStore   *store.ProjectStore
	categoryStore  *store.CategoryStore
	mediaStore     *store.MediaStore
	contactStore   *store.ContactStore
	userStore      *store.UserStore
	mediaSvc       *media.Service
	blobs          storage.Store
	maxUploadSize  int64 // per-file cap, also bounds the request body
	maxUploadFiles int   // batch cap, mirrors the ingest limit
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(
	projectStore *store.ProjectStore,
	categoryStore *store.CategoryStore,
	mediaStore *store.MediaStore,
	contactStore *store.ContactStore,
	userStore *store.UserStore,
	mediaSvc *media.Service,
	blobs storage.Store,
	maxUploadSize int64,
	maxUploadFiles int,
) *Admin {
	if maxUploadFiles <= 0 {
		maxUploadFiles = media.DefaultMaxBatchSize
	}
	return &Admin{
		projectStore:   projectStore,
		categoryStore:  categoryStore,
		mediaStore:     mediaStore,
		contactStore:   contactStore,
		userStore:      userStore,
		mediaSvc:       mediaSvc,
		blobs:          blobs,
		maxUploadSize:  maxUploadSize,
		maxUploadFiles: maxUploadFiles,
	}
}

// Dashboard returns aggregate stats for the admin overview screen.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	byStatus, err := a.projectStore.CountByStatus()
	if err != nil {
		respondInternal(w, "dashboard project counts failed", err)
		return
	}
	categoryCount, err := a.categoryStore.Count()
	if err != nil {
		respondInternal(w, "dashboard category count failed", err)
		return
	}
	mediaCount, err := a.mediaStore.Count()
	if err != nil {
		respondInternal(w, "dashboard media count failed", err)
		return
	}
	contactStats, err := a.contactStore.Stats()
	if err != nil {
		respondInternal(w, "dashboard contact stats failed", err)
		return
	}
	users, err := a.userStore.List()
	if err != nil {
		respondInternal(w, "dashboard user count failed", err)
		return
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	respondData(w, http.StatusOK, map[string]any{
		"projects": map[string]any{
			"total":     total,
			"draft":     byStatus[models.StatusDraft],
			"published": byStatus[models.StatusPublished],
			"archived":  byStatus[models.StatusArchived],
		},
		"categories": categoryCount,
		"media":      mediaCount,
		"contacts":   contactStats,
		"users":      len(users),
	})
}

// --- User management (admin role only) ---

// UsersList returns all accounts.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.userStore.List()
	if err != nil {
		respondInternal(w, "list users failed", err)
		return
	}
	respondData(w, http.StatusOK, users)
}

// UserCreate registers a new account.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	errs := make(map[string]string)
	if req.Name == "" {
		errs["name"] = "Name is required."
	}
	if !validEmail(req.Email) {
		errs["email"] = "Email address is not valid."
	}
	if len(req.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	role := models.Role(req.Role)
	if role != models.RoleAdmin && role != models.RoleEditor && role != models.RoleUser {
		errs["role"] = "Role must be admin, editor, or user."
	}
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	existing, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		respondInternal(w, "user lookup failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}

	user, err := a.userStore.Create(req.Name, req.Email, req.Password, role)
	if err != nil {
		respondInternal(w, "create user failed", err)
		return
	}
	respondMessage(w, http.StatusCreated, "User created.", user)
}

// UserResetTwoFA clears an account's TOTP enrollment so it can be set
// up again on next login.
func (a *Admin) UserResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := a.userStore.ResetTOTP(id); err != nil {
		respondInternal(w, "reset 2fa failed", err)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	slog.Info("2fa reset", "target_user", id, "by", sess.UserID)
	respondMessage(w, http.StatusOK, "Two-factor authentication reset.", nil)
}

// UserDelete removes an account. Self-deletion is rejected.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess.UserID == id {
		respondError(w, http.StatusConflict, "You cannot delete your own account.")
		return
	}

	if err := a.userStore.Delete(id); err != nil {
		respondInternal(w, "delete user failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted.", nil)
}

// parseID extracts and parses the {id} route parameter, answering 400
// on malformed input.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID.")
		return uuid.Nil, false
	}
	return id, true
}
