// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"oikos/internal/models"
)

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, project_id, type, filename, original_name, mime_type,
	file_size, path, thumbnail_path, compressed_path, width, height, duration,
	alt_text, description, is_featured, sort_order, created_at, updated_at`

// scanMedia scans a media row from the result set.
func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.ProjectID, &m.Type, &m.Filename, &m.OriginalName,
		&m.MimeType, &m.FileSize, &m.Path, &m.ThumbnailPath,
		&m.CompressedPath, &m.Width, &m.Height, &m.Duration,
		&m.AltText, &m.Description, &m.IsFeatured, &m.SortOrder,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateTx inserts a new media record within an existing transaction and
// returns it with the generated ID. The ingestion pipeline uses this so
// a whole upload batch commits or rolls back as one unit.
func (s *MediaStore) CreateTx(tx *sql.Tx, m *models.Media) (*models.Media, error) {
	row := tx.QueryRow(`
		INSERT INTO project_media (project_id, type, filename, original_name,
			mime_type, file_size, path, thumbnail_path, compressed_path,
			width, height, duration, alt_text, description, is_featured, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+mediaColumns,
		m.ProjectID, m.Type, m.Filename, m.OriginalName, m.MimeType,
		m.FileSize, m.Path, m.ThumbnailPath, m.CompressedPath,
		m.Width, m.Height, m.Duration, m.AltText, m.Description,
		m.IsFeatured, m.SortOrder,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media record by its UUID.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	row := s.db.QueryRow(`SELECT `+mediaColumns+` FROM project_media WHERE id = $1`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// ListByProject returns a project's media ordered by sort_order.
func (s *MediaStore) ListByProject(projectID uuid.UUID) ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM project_media
		WHERE project_id = $1
		ORDER BY sort_order, created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// UpdateMediaParams carries the mutable fields of a media record.
// Nil pointers leave the corresponding column untouched.
type UpdateMediaParams struct {
	AltText     *string
	Description *string
	IsFeatured  *bool
	SortOrder   *int
}

// Update modifies a media record. Turning is_featured on clears the flag
// on every sibling row in the same transaction, so at most one medium
// per project remains featured after commit.
func (s *MediaStore) Update(id uuid.UUID, params UpdateMediaParams) (*models.Media, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update media: begin: %w", err)
	}
	defer tx.Rollback()

	current, err := scanMedia(tx.QueryRow(
		`SELECT `+mediaColumns+` FROM project_media WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update media: lock row: %w", err)
	}

	if params.IsFeatured != nil && *params.IsFeatured && !current.IsFeatured {
		if err := clearFeaturedTx(tx, current.ProjectID, id); err != nil {
			return nil, err
		}
	}

	if params.AltText != nil {
		current.AltText = params.AltText
	}
	if params.Description != nil {
		current.Description = params.Description
	}
	if params.IsFeatured != nil {
		current.IsFeatured = *params.IsFeatured
	}
	if params.SortOrder != nil {
		current.SortOrder = *params.SortOrder
	}

	row := tx.QueryRow(`
		UPDATE project_media SET
			alt_text = $1, description = $2, is_featured = $3,
			sort_order = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+mediaColumns,
		current.AltText, current.Description, current.IsFeatured,
		current.SortOrder, id,
	)
	updated, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("update media: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update media: commit: %w", err)
	}
	return updated, nil
}

// SetFeatured marks one medium as the project's featured one. The clear
// and set steps run in a single transaction so concurrent calls on the
// same project can never leave two rows featured: last commit wins.
func (s *MediaStore) SetFeatured(id uuid.UUID) (*models.Media, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("set featured: begin: %w", err)
	}
	defer tx.Rollback()

	var projectID uuid.UUID
	err = tx.QueryRow(
		`SELECT project_id FROM project_media WHERE id = $1 FOR UPDATE`, id,
	).Scan(&projectID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("set featured: lock row: %w", err)
	}

	if err := clearFeaturedTx(tx, projectID, id); err != nil {
		return nil, err
	}

	row := tx.QueryRow(`
		UPDATE project_media SET is_featured = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING `+mediaColumns, id)
	m, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("set featured: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("set featured: commit: %w", err)
	}
	return m, nil
}

// clearFeaturedTx unsets is_featured on every medium of a project except
// the one being promoted.
func clearFeaturedTx(tx *sql.Tx, projectID, keep uuid.UUID) error {
	_, err := tx.Exec(`
		UPDATE project_media SET is_featured = FALSE, updated_at = NOW()
		WHERE project_id = $1 AND id <> $2 AND is_featured
	`, projectID, keep)
	if err != nil {
		return fmt.Errorf("clear featured: %w", err)
	}
	return nil
}

// FeaturedCount returns how many media rows of a project are flagged
// featured. The invariant keeps this at zero or one.
func (s *MediaStore) FeaturedCount(projectID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM project_media WHERE project_id = $1 AND is_featured
	`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("featured count: %w", err)
	}
	return count, nil
}

// Reorder assigns sort_order by position for the given media IDs, all
// belonging to one project, in a single transaction.
func (s *MediaStore) Reorder(projectID uuid.UUID, ids []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder media: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE project_media SET sort_order = $1, updated_at = NOW()
		WHERE id = $2 AND project_id = $3`)
	if err != nil {
		return fmt.Errorf("reorder media: prepare: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(i, id, projectID); err != nil {
			return fmt.Errorf("reorder media %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Delete removes a media record and returns it so the caller can clean
// up the stored blobs.
func (s *MediaStore) Delete(id uuid.UUID) (*models.Media, error) {
	row := s.db.QueryRow(`
		DELETE FROM project_media WHERE id = $1
		RETURNING `+mediaColumns, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}

// Count returns the total number of media items.
func (s *MediaStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM project_media`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return count, nil
}
