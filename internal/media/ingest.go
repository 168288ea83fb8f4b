// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"path"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder

	"oikos/internal/models"
	"oikos/internal/storage"
	"oikos/internal/store"
)

// Service is the media ingestion pipeline and lifecycle manager.
type Service struct {
	db     *sql.DB
	media  *store.MediaStore
	blobs  storage.Store
	limits Limits
}

// NewService wires the pipeline to its database and blob store.
func NewService(db *sql.DB, mediaStore *store.MediaStore, blobs storage.Store, limits Limits) *Service {
	return &Service{
		db:     db,
		media:  mediaStore,
		blobs:  blobs,
		limits: limits.withDefaults(),
	}
}

// Ingest validates, classifies, stores, and records a batch of uploaded
// files for a project as one logical unit. Items are processed in input
// order; sort_order defaults to the batch index. Images get a JPEG
// thumbnail when large enough; compressed variants are generated by
// out-of-process jobs later, so compressed_path starts absent.
//
// The operation is all-or-nothing: any failure rolls back every row of
// the batch and removes every blob stored so far. Blob cleanup runs on
// a context detached from the request, so a dropped client connection
// cannot leave half-committed state behind.
func (s *Service) Ingest(ctx context.Context, projectID uuid.UUID, items []UploadItem) ([]models.Media, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(items) > s.limits.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d files (limit %d)",
			ErrBatchTooLarge, len(items), s.limits.MaxBatchSize)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ingest: begin: %w", err)
	}

	// Paths stored so far, for rollback. Each path is appended right
	// after a successful Put and before the row insert, so a failure
	// anywhere in the same item still cleans this file up.
	var stored []string

	abort := func(cause error) error {
		tx.Rollback()
		s.removeBlobs(context.WithoutCancel(ctx), stored)
		slog.Error("media ingest aborted",
			"project_id", projectID,
			"stored_blobs", len(stored),
			"error", cause,
		)
		return cause
	}

	created := make([]models.Media, 0, len(items))

	for i, item := range items {
		resolved := ResolveType(item.DeclaredType, item.MimeType)

		if err := validateItem(item, resolved, s.limits); err != nil {
			return nil, abort(err)
		}

		// Pixel dimensions are nice-to-have: a probe failure never
		// blocks ingestion.
		var width, height *int
		if resolved == models.MediaTypeImage {
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(item.Data)); err == nil {
				width, height = &cfg.Width, &cfg.Height
			}
		}

		ext := path.Ext(item.OriginalName)
		blobPath, err := s.blobs.Put(ctx, folderFor(resolved), ext, item.MimeType,
			bytes.NewReader(item.Data), int64(len(item.Data)))
		if err != nil {
			return nil, abort(fmt.Errorf("ingest: store %q: %w", item.OriginalName, err))
		}
		stored = append(stored, blobPath)

		// Thumbnails are best-effort; a generation failure is logged
		// and the item keeps only its original.
		var thumbPath *string
		if resolved == models.MediaTypeImage {
			thumbData, err := generateThumbnail(item.Data, thumbMaxWidth)
			if err != nil {
				slog.Warn("thumbnail generation failed",
					"file", item.OriginalName, "error", err)
			} else if thumbData != nil {
				tp, err := s.blobs.Put(ctx, thumbFolder, ".jpg", "image/jpeg",
					bytes.NewReader(thumbData), int64(len(thumbData)))
				if err != nil {
					slog.Warn("thumbnail store failed",
						"file", item.OriginalName, "error", err)
				} else {
					stored = append(stored, tp)
					thumbPath = &tp
				}
			}
		}

		sortOrder := i
		if item.SortOrder != nil {
			sortOrder = *item.SortOrder
		}

		rec, err := s.media.CreateTx(tx, &models.Media{
			ProjectID:     projectID,
			Type:          resolved,
			Filename:      path.Base(blobPath),
			OriginalName:  item.OriginalName,
			MimeType:      item.MimeType,
			FileSize:      int64(len(item.Data)),
			Path:          blobPath,
			ThumbnailPath: thumbPath,
			Width:         width,
			Height:        height,
			AltText:       item.AltText,
			Description:   item.Description,
			IsFeatured:    item.IsFeatured,
			SortOrder:     sortOrder,
		})
		if err != nil {
			return nil, abort(fmt.Errorf("ingest: record %q: %w", item.OriginalName, err))
		}

		created = append(created, *rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, abort(fmt.Errorf("ingest: commit: %w", err))
	}

	return created, nil
}

// removeBlobs deletes a list of stored paths, logging failures. Used
// only during batch rollback.
func (s *Service) removeBlobs(ctx context.Context, paths []string) {
	for _, p := range paths {
		if _, err := s.blobs.Delete(ctx, p); err != nil {
			slog.Warn("rollback blob delete failed", "path", p, "error", err)
		}
	}
}
