// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"oikos/internal/media"
	"oikos/internal/models"
	"oikos/internal/storage"
	"oikos/internal/store"
)

// mediaView decorates a media row with its public URLs.
type mediaView struct {
	models.Media
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// ProjectMediaUpload ingests a batch of files for a project. Files
// arrive as multipart form data with parallel metadata arrays; the
// whole batch succeeds or fails together.
func (a *Admin) ProjectMediaUpload(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := a.projectStore.FindByID(projectID)
	if err != nil {
		respondInternal(w, "project lookup failed", err)
		return
	}
	if p == nil {
		respondNotFound(w, "Project")
		return
	}

	// Bound the request body: batch limit times per-file cap, plus
	// slack for the metadata fields.
	maxBody := a.maxUploadSize*int64(a.maxUploadFiles) + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Upload too large.")
		return
	}

	items, err := parseUploadBatch(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Could not read uploaded files.")
		return
	}

	created, err := a.mediaSvc.Ingest(r.Context(), projectID, items)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrEmptyBatch):
			respondValidation(w, map[string]string{"files": "At least one file is required."})
		case errors.Is(err, media.ErrBatchTooLarge):
			respondValidation(w, map[string]string{"files": err.Error()})
		case errors.Is(err, media.ErrFileTooLarge), errors.Is(err, media.ErrTypeNotAllowed):
			respondValidation(w, map[string]string{"files": err.Error()})
		default:
			respondInternal(w, "media ingest failed", err)
		}
		return
	}

	respondMessage(w, http.StatusCreated, "Files uploaded.", mediaViews(a.blobs, created))
}

// mediaViews maps rows to their API shape with resolved URLs.
func mediaViews(blobs storage.Store, items []models.Media) []mediaView {
	views := make([]mediaView, 0, len(items))
	for _, m := range items {
		views = append(views, newMediaView(blobs, m))
	}
	return views
}

func newMediaView(blobs storage.Store, m models.Media) mediaView {
	v := mediaView{Media: m, URL: blobs.URL(m.Path)}
	if m.ThumbnailPath != nil {
		u := blobs.URL(*m.ThumbnailPath)
		v.ThumbnailURL = &u
	}
	return v
}

// ProjectMediaList returns a project's media in display order.
func (a *Admin) ProjectMediaList(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r)
	if !ok {
		return
	}

	items, err := a.mediaStore.ListByProject(projectID)
	if err != nil {
		respondInternal(w, "list media failed", err)
		return
	}
	respondData(w, http.StatusOK, mediaViews(a.blobs, items))
}

// MediaUpdate patches a media row's metadata. Setting is_featured on
// demotes every sibling in the same transaction.
func (a *Admin) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		AltText     *string `json:"alt_text"`
		Description *string `json:"description"`
		IsFeatured  *bool   `json:"is_featured"`
		SortOrder   *int    `json:"sort_order"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		respondValidation(w, map[string]string{"sort_order": "Sort order cannot be negative."})
		return
	}

	updated, err := a.mediaStore.Update(id, store.UpdateMediaParams{
		AltText:     req.AltText,
		Description: req.Description,
		IsFeatured:  req.IsFeatured,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondInternal(w, "update media failed", err)
		return
	}
	if updated == nil {
		respondNotFound(w, "Media")
		return
	}
	respondMessage(w, http.StatusOK, "Media updated.", newMediaView(a.blobs, *updated))
}

// MediaSetFeatured promotes one medium to featured for its project.
func (a *Admin) MediaSetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	updated, err := a.mediaStore.SetFeatured(id)
	if err != nil {
		respondInternal(w, "set featured failed", err)
		return
	}
	if updated == nil {
		respondNotFound(w, "Media")
		return
	}
	respondMessage(w, http.StatusOK, "Featured media updated.", newMediaView(a.blobs, *updated))
}

// ProjectMediaReorder rewrites a project's sort order from an ordered
// list of media IDs.
func (a *Admin) ProjectMediaReorder(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		MediaIDs []string `json:"media_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if len(req.MediaIDs) == 0 {
		respondValidation(w, map[string]string{"media_ids": "At least one media ID is required."})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.MediaIDs))
	for _, s := range req.MediaIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			respondValidation(w, map[string]string{"media_ids": "Media IDs must be valid UUIDs."})
			return
		}
		ids = append(ids, id)
	}

	if err := a.mediaStore.Reorder(projectID, ids); err != nil {
		respondInternal(w, "reorder media failed", err)
		return
	}

	items, err := a.mediaStore.ListByProject(projectID)
	if err != nil {
		respondInternal(w, "list media failed", err)
		return
	}
	respondMessage(w, http.StatusOK, "Media reordered.", mediaViews(a.blobs, items))
}

// MediaDelete removes a media row, then cleans up its stored files.
// File cleanup is best-effort once the row is gone.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := a.mediaStore.Delete(id)
	if err != nil {
		respondInternal(w, "delete media failed", err)
		return
	}
	if deleted == nil {
		respondNotFound(w, "Media")
		return
	}

	a.mediaSvc.DeleteMediaFiles(context.WithoutCancel(r.Context()), deleted)

	respondMessage(w, http.StatusOK, "Media deleted.", nil)
}
