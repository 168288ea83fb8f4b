// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"fmt"
	"log/slog"

	"oikos/internal/models"
)

// DeleteMediaFiles removes every blob belonging to a media record
// (original, thumbnail, compressed variant). Missing blobs are skipped.
// It never fails the caller: deletion of the database row is the
// authoritative state change and must not be blocked by a filesystem
// inconsistency. Failures are logged and returned so callers can retry
// or ignore them.
func (s *Service) DeleteMediaFiles(ctx context.Context, m *models.Media) []error {
	var failures []error
	for _, p := range m.BlobPaths() {
		if _, err := s.blobs.Delete(ctx, p); err != nil {
			slog.Warn("media blob delete failed",
				"media_id", m.ID,
				"path", p,
				"error", err,
			)
			failures = append(failures, fmt.Errorf("delete %s: %w", p, err))
		}
	}
	return failures
}

// DeleteMediaCollection applies DeleteMediaFiles to every element, for
// project-cascade deletes.
func (s *Service) DeleteMediaCollection(ctx context.Context, items []models.Media) []error {
	var failures []error
	for i := range items {
		failures = append(failures, s.DeleteMediaFiles(ctx, &items[i])...)
	}
	return failures
}
