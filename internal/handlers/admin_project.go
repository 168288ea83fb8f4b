// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"oikos/internal/models"
	"oikos/internal/store"
)

// projectRequest carries project fields for create and update. Pointer
// fields distinguish "absent" from "set to zero" so updates can be
// partial.
type projectRequest struct {
	Title           *string  `json:"title"`
	Slug            *string  `json:"slug"`
	Description     *string  `json:"description"`
	LongDescription *string  `json:"long_description"`
	Client          *string  `json:"client"`
	Location        *string  `json:"location"`
	ProjectDate     *string  `json:"project_date"` // YYYY-MM-DD
	Area            *float64 `json:"area"`
	Status          *string  `json:"status"`
	IsFeatured      *bool    `json:"is_featured"`
	SortOrder       *int     `json:"sort_order"`
	CategoryID      *string  `json:"category_id"`
	Tags            []string `json:"tags"`
	FeaturedImage   *string  `json:"featured_image"`
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// parseProjectDate accepts a bare date or a full RFC 3339 timestamp.
func parseProjectDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// futureDate reports whether t falls after the current UTC day. Project
// dates record completed or ongoing work, never planned work.
func futureDate(t time.Time) bool {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return t.UTC().Truncate(24 * time.Hour).After(today)
}

func validStatus(s models.ProjectStatus) bool {
	switch s {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return true
	}
	return false
}

// ProjectsList returns projects matching the query filters. Admins see
// every status unless one is requested.
func (a *Admin) ProjectsList(w http.ResponseWriter, r *http.Request) {
	f := projectFilterFromQuery(r)

	items, total, err := a.projectStore.List(f)
	if err != nil {
		respondInternal(w, "list projects failed", err)
		return
	}
	respondList(w, items, f.Page, f.PerPage, total)
}

// projectFilterFromQuery builds a ProjectFilter from URL query params.
func projectFilterFromQuery(r *http.Request) store.ProjectFilter {
	q := r.URL.Query()

	f := store.ProjectFilter{
		Status:       models.ProjectStatus(q.Get("status")),
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Tag:          q.Get("tag"),
		SortBy:       q.Get("sort"),
		SortDesc:     q.Get("order") != "asc",
	}
	if v := q.Get("featured"); v != "" {
		b := parseBool(v)
		f.Featured = &b
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	if f.Page < 1 {
		f.Page = 1
	}
	// Mirror the store's window so the pagination envelope is accurate.
	f.PerPage, _ = strconv.Atoi(q.Get("per_page"))
	if f.PerPage <= 0 {
		f.PerPage = 12
	}
	if f.PerPage > 50 {
		f.PerPage = 50
	}
	return f
}

// ProjectCreate validates input and inserts a new project. A missing
// slug is derived from the title and made unique.
func (a *Admin) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if errs := validateProject(strOrEmpty(req.Title), strOrEmpty(req.Description), strOrEmpty(req.CategoryID), req.Tags); errs != nil {
		respondValidation(w, errs)
		return
	}

	categoryID, err := uuid.Parse(*req.CategoryID)
	if err != nil {
		respondValidation(w, map[string]string{"category_id": "Category ID is not valid."})
		return
	}
	category, err := a.categoryStore.FindByID(categoryID)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if category == nil {
		respondValidation(w, map[string]string{"category_id": "Category does not exist."})
		return
	}

	p := &models.Project{
		Title:       strings.TrimSpace(*req.Title),
		Description: *req.Description,
		Status:      models.StatusDraft,
		CategoryID:  categoryID,
		Tags:        req.Tags,
	}
	if errs := applyProjectFields(p, &req); errs != nil {
		respondValidation(w, errs)
		return
	}

	// Explicit slugs must be free; otherwise one is derived from the title.
	if req.Slug != nil && *req.Slug != "" {
		taken, err := a.projectStore.SlugTaken(*req.Slug, uuid.Nil)
		if err != nil {
			respondInternal(w, "slug check failed", err)
			return
		}
		if taken {
			respondValidation(w, map[string]string{"slug": "This slug is already in use."})
			return
		}
		p.Slug = *req.Slug
	}

	created, err := a.projectStore.Create(p)
	if err != nil {
		respondInternal(w, "create project failed", err)
		return
	}
	created.Category = category

	respondMessage(w, http.StatusCreated, "Project created.", created)
}

// applyProjectFields copies the optional request fields onto the model,
// returning validation errors for malformed values.
func applyProjectFields(p *models.Project, req *projectRequest) map[string]string {
	if req.LongDescription != nil {
		if utf8.RuneCountInString(*req.LongDescription) > maxLongDescLen {
			return map[string]string{"long_description": "Long description is too long."}
		}
		p.LongDescription = req.LongDescription
	}
	if req.Client != nil {
		p.Client = req.Client
	}
	if req.Location != nil {
		p.Location = req.Location
	}
	if req.ProjectDate != nil && *req.ProjectDate != "" {
		t, err := parseProjectDate(*req.ProjectDate)
		if err != nil {
			return map[string]string{"project_date": "Project date must be YYYY-MM-DD."}
		}
		if futureDate(t) {
			return map[string]string{"project_date": "Project date cannot be in the future."}
		}
		p.ProjectDate = &t
	}
	if req.Area != nil {
		if *req.Area < 0 {
			return map[string]string{"area": "Area cannot be negative."}
		}
		p.Area = req.Area
	}
	if req.Status != nil {
		st := models.ProjectStatus(*req.Status)
		if !validStatus(st) {
			return map[string]string{"status": "Status must be draft, published, or archived."}
		}
		p.Status = st
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			return map[string]string{"sort_order": "Sort order cannot be negative."}
		}
		p.SortOrder = *req.SortOrder
	}
	if req.FeaturedImage != nil {
		p.FeaturedImage = req.FeaturedImage
	}
	return nil
}

// ProjectShow returns a single project with its category and media.
func (a *Admin) ProjectShow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := a.projectStore.FindByID(id)
	if err != nil {
		respondInternal(w, "project lookup failed", err)
		return
	}
	if p == nil {
		respondNotFound(w, "Project")
		return
	}

	if err := a.attachRelations(p); err != nil {
		respondInternal(w, "project relations failed", err)
		return
	}
	respondData(w, http.StatusOK, p)
}

// attachRelations loads the category and media rows onto a project.
func (a *Admin) attachRelations(p *models.Project) error {
	category, err := a.categoryStore.FindByID(p.CategoryID)
	if err != nil {
		return err
	}
	p.Category = category

	items, err := a.mediaStore.ListByProject(p.ID)
	if err != nil {
		return err
	}
	p.Media = items
	return nil
}

// ProjectUpdate patches a project with the supplied fields.
func (a *Admin) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := a.projectStore.FindByID(id)
	if err != nil {
		respondInternal(w, "project lookup failed", err)
		return
	}
	if p == nil {
		respondNotFound(w, "Project")
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			respondValidation(w, map[string]string{"title": "Title is required."})
			return
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			respondValidation(w, map[string]string{"description": "Description is required."})
			return
		}
		p.Description = *req.Description
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondValidation(w, map[string]string{"category_id": "Category ID is not valid."})
			return
		}
		category, err := a.categoryStore.FindByID(categoryID)
		if err != nil {
			respondInternal(w, "category lookup failed", err)
			return
		}
		if category == nil {
			respondValidation(w, map[string]string{"category_id": "Category does not exist."})
			return
		}
		p.CategoryID = categoryID
	}
	if req.Tags != nil {
		if errs := validateProject(p.Title, p.Description, p.CategoryID.String(), req.Tags); errs != nil {
			respondValidation(w, errs)
			return
		}
		p.Tags = req.Tags
	}
	if req.Slug != nil && *req.Slug != "" && *req.Slug != p.Slug {
		taken, err := a.projectStore.SlugTaken(*req.Slug, p.ID)
		if err != nil {
			respondInternal(w, "slug check failed", err)
			return
		}
		if taken {
			respondValidation(w, map[string]string{"slug": "This slug is already in use."})
			return
		}
		p.Slug = *req.Slug
	}
	if errs := applyProjectFields(p, &req); errs != nil {
		respondValidation(w, errs)
		return
	}

	if err := a.projectStore.Update(p); err != nil {
		respondInternal(w, "update project failed", err)
		return
	}
	if err := a.attachRelations(p); err != nil {
		respondInternal(w, "project relations failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Project updated.", p)
}

// ProjectDelete removes a project, its media rows (by cascade), and
// their stored files. Blob cleanup is best-effort and never fails the
// request once the database delete succeeded.
func (a *Admin) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := a.projectStore.FindByID(id)
	if err != nil {
		respondInternal(w, "project lookup failed", err)
		return
	}
	if p == nil {
		respondNotFound(w, "Project")
		return
	}

	// Snapshot media rows before the cascade removes them.
	items, err := a.mediaStore.ListByProject(id)
	if err != nil {
		respondInternal(w, "project media lookup failed", err)
		return
	}

	if err := a.projectStore.Delete(id); err != nil {
		respondInternal(w, "delete project failed", err)
		return
	}

	a.mediaSvc.DeleteMediaCollection(context.WithoutCancel(r.Context()), items)

	respondMessage(w, http.StatusOK, "Project deleted.", nil)
}
