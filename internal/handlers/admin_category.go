// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"oikos/internal/models"
	"oikos/internal/slug"
	"oikos/internal/store"
)

// categoryRequest carries category fields for create and update.
type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoriesList returns every category with its project count.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categoryStore.List(false)
	if err != nil {
		respondInternal(w, "list categories failed", err)
		return
	}
	respondData(w, http.StatusOK, categories)
}

// CategoryCreate inserts a new category. Names are unique; the slug is
// derived from the name.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	name := strings.TrimSpace(strOrEmpty(req.Name))
	if errs := validateCategory(name); errs != nil {
		respondValidation(w, errs)
		return
	}

	taken, err := a.categoryStore.NameTaken(name, uuid.Nil)
	if err != nil {
		respondInternal(w, "category name check failed", err)
		return
	}
	if taken {
		respondError(w, http.StatusConflict, "A category with this name already exists.")
		return
	}

	c := &models.Category{
		Name:     name,
		Slug:     slug.Generate(name),
		IsActive: true,
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			respondValidation(w, map[string]string{"sort_order": "Sort order cannot be negative."})
			return
		}
		c.SortOrder = *req.SortOrder
	}

	created, err := a.categoryStore.Create(c)
	if err != nil {
		respondInternal(w, "create category failed", err)
		return
	}
	respondMessage(w, http.StatusCreated, "Category created.", created)
}

// CategoryShow returns a single category.
func (a *Admin) CategoryShow(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := a.categoryStore.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Category")
		return
	}
	respondData(w, http.StatusOK, c)
}

// CategoryUpdate patches a category. Renaming also regenerates the slug.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := a.categoryStore.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Category")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if errs := validateCategory(name); errs != nil {
			respondValidation(w, errs)
			return
		}
		if name != c.Name {
			taken, err := a.categoryStore.NameTaken(name, c.ID)
			if err != nil {
				respondInternal(w, "category name check failed", err)
				return
			}
			if taken {
				respondError(w, http.StatusConflict, "A category with this name already exists.")
				return
			}
			c.Name = name
			c.Slug = slug.Generate(name)
		}
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			respondValidation(w, map[string]string{"sort_order": "Sort order cannot be negative."})
			return
		}
		c.SortOrder = *req.SortOrder
	}

	if err := a.categoryStore.Update(c); err != nil {
		respondInternal(w, "update category failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Category updated.", c)
}

// CategoryDelete removes a category. Categories still referenced by
// projects are protected and answer 409 with the dependent count.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	c, err := a.categoryStore.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondNotFound(w, "Category")
		return
	}

	if err := a.categoryStore.Delete(id); err != nil {
		var inUse *store.ErrCategoryInUse
		if errors.As(err, &inUse) {
			writeJSON(w, http.StatusConflict, envelope{
				Success: false,
				Message: "Category is in use and cannot be deleted.",
				Data:    map[string]any{"project_count": inUse.ProjectCount},
			})
			return
		}
		respondInternal(w, "delete category failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Category deleted.", nil)
}
