// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaType classifies a stored asset as a still image or a video.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Media represents one stored asset owned by exactly one project.
// Metadata lives in PostgreSQL; the file itself lives in the blob store
// under Path, with optional thumbnail and compressed variants generated
// by out-of-process jobs.
type Media struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Type           MediaType `json:"type"`
	Filename       string    `json:"filename"`
	OriginalName   string    `json:"original_name"` // display only, never a path
	MimeType       string    `json:"mime_type"`
	FileSize       int64     `json:"file_size"`
	Path           string    `json:"path"`
	ThumbnailPath  *string   `json:"thumbnail_path,omitempty"`
	CompressedPath *string   `json:"compressed_path,omitempty"`
	Width          *int      `json:"width,omitempty"`
	Height         *int      `json:"height,omitempty"`
	Duration       *int      `json:"duration,omitempty"` // seconds, video only
	AltText        *string   `json:"alt_text,omitempty"`
	Description    *string   `json:"description,omitempty"`
	IsFeatured     bool      `json:"is_featured"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsImage returns true if the media item is an image.
func (m *Media) IsImage() bool {
	return m.Type == MediaTypeImage
}

// IsVideo returns true if the media item is a video.
func (m *Media) IsVideo() bool {
	return m.Type == MediaTypeVideo
}

// BlobPaths returns every non-empty blob path belonging to this media
// item (original, thumbnail, compressed variant), for cleanup.
func (m *Media) BlobPaths() []string {
	paths := []string{m.Path}
	if m.ThumbnailPath != nil && *m.ThumbnailPath != "" {
		paths = append(paths, *m.ThumbnailPath)
	}
	if m.CompressedPath != nil && *m.CompressedPath != "" {
		paths = append(paths, *m.CompressedPath)
	}
	return paths
}

// HumanSize returns a human-readable file size string.
func (m *Media) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.FileSize >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.FileSize)/float64(mb))
	case m.FileSize >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.FileSize)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.FileSize)
	}
}

// FormattedDuration returns the video duration as m:ss, or "" when the
// duration is unknown or the item is not a video.
func (m *Media) FormattedDuration() string {
	if m.Duration == nil || *m.Duration <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", *m.Duration/60, *m.Duration%60)
}
