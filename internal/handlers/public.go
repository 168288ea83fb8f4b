// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"oikos/internal/cache"
	"oikos/internal/models"
	"oikos/internal/storage"
	"oikos/internal/store"
)

// Public groups the unauthenticated site API handlers. It only ever
// exposes published projects and active categories.
type Public struct {
	projectStore  *store.ProjectStore
	categoryStore *store.CategoryStore
	mediaStore    *store.MediaStore
	contactStore  *store.ContactStore
	limiter       *cache.ContactLimiter
	blobs         storage.Store
}

// NewPublic creates a new Public handler group.
func NewPublic(
	projectStore *store.ProjectStore,
	categoryStore *store.CategoryStore,
	mediaStore *store.MediaStore,
	contactStore *store.ContactStore,
	limiter *cache.ContactLimiter,
	blobs storage.Store,
) *Public {
	return &Public{
		projectStore:  projectStore,
		categoryStore: categoryStore,
		mediaStore:    mediaStore,
		contactStore:  contactStore,
		limiter:       limiter,
		blobs:         blobs,
	}
}

// ProjectsList returns published projects matching the query filters.
func (p *Public) ProjectsList(w http.ResponseWriter, r *http.Request) {
	f := projectFilterFromQuery(r)
	f.Status = models.StatusPublished

	items, total, err := p.projectStore.List(f)
	if err != nil {
		respondInternal(w, "list projects failed", err)
		return
	}
	respondList(w, items, f.Page, f.PerPage, total)
}

// ProjectShow returns one published project by UUID or slug, with its
// category and media. Drafts and archived projects answer 404 so their
// existence is not revealed.
func (p *Public) ProjectShow(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimSpace(chi.URLParam(r, "identifier"))

	project, err := p.projectStore.FindByIdentifier(identifier)
	if err != nil {
		respondInternal(w, "project lookup failed", err)
		return
	}
	if project == nil || !project.IsPublished() {
		respondNotFound(w, "Project")
		return
	}

	category, err := p.categoryStore.FindByID(project.CategoryID)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	project.Category = category

	items, err := p.mediaStore.ListByProject(project.ID)
	if err != nil {
		respondInternal(w, "media lookup failed", err)
		return
	}
	project.Media = items

	respondData(w, http.StatusOK, map[string]any{
		"project": project,
		"media":   mediaViews(p.blobs, items),
	})
}

// FeaturedProjects returns the published projects flagged as featured.
func (p *Public) FeaturedProjects(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := p.projectStore.Featured(limit)
	if err != nil {
		respondInternal(w, "featured projects failed", err)
		return
	}
	respondData(w, http.StatusOK, items)
}

// CategoriesList returns active categories with their project counts.
func (p *Public) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := p.categoryStore.List(true)
	if err != nil {
		respondInternal(w, "list categories failed", err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

// ContactSubmit stores a contact-form message. Each email address may
// submit three messages per hour; the limiter runs in Valkey with a
// database count as fallback when Valkey is unreachable.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		Phone   *string `json:"phone"`
		Subject string  `json:"subject"`
		Message string  `json:"message"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := validateContact(req.Name, req.Email, req.Subject, req.Message); errs != nil {
		respondValidation(w, errs)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	allowed, err := p.limiter.Allow(r.Context(), email)
	if err != nil {
		slog.Warn("contact limiter unavailable, using database fallback", "error", err)
		n, dbErr := p.contactStore.CountRecentByEmail(email, time.Now().Add(-cache.DefaultContactWindow))
		if dbErr != nil {
			respondInternal(w, "contact rate check failed", dbErr)
			return
		}
		allowed = n < cache.DefaultContactLimit
	}
	if !allowed {
		respondError(w, http.StatusTooManyRequests, "Too many messages. Please try again later.")
		return
	}

	c := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   req.Phone,
		Subject: strings.TrimSpace(req.Subject),
		Message: req.Message,
	}
	created, err := p.contactStore.Create(c)
	if err != nil {
		respondInternal(w, "create contact failed", err)
		return
	}

	respondMessage(w, http.StatusCreated, "Thank you for your message. We will get back to you soon.", map[string]any{
		"reference_number": created.ReferenceNumber(),
	})
}
