// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media implements the upload ingestion pipeline and the blob
// lifecycle manager for project media. Ingestion is all-or-nothing with
// respect to both the database and the blob store: a batch either
// commits every row with every blob in place, or leaves no trace.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"oikos/internal/models"
)

// Batch limits and allow-lists. MaxBatchSize and MaxFileSize are the
// defaults; deployments override them through Limits.
const (
	DefaultMaxBatchSize = 10
	DefaultMaxFileSize  = 20 << 20 // 20 MB

	imageFolder = "projects/images"
	videoFolder = "projects/videos/original"
	thumbFolder = "projects/thumbnails"
)

// Validation sentinels. Handlers map these to 422 responses.
var (
	ErrEmptyBatch     = errors.New("media: empty upload batch")
	ErrBatchTooLarge  = errors.New("media: too many files in batch")
	ErrFileTooLarge   = errors.New("media: file exceeds size limit")
	ErrTypeNotAllowed = errors.New("media: file type not allowed")
)

// allowedExtensions maps permitted file extensions to the media type
// they belong to.
var allowedExtensions = map[string]models.MediaType{
	".jpg":  models.MediaTypeImage,
	".jpeg": models.MediaTypeImage,
	".png":  models.MediaTypeImage,
	".webp": models.MediaTypeImage,
	".gif":  models.MediaTypeImage,
	".mp4":  models.MediaTypeVideo,
	".mov":  models.MediaTypeVideo,
	".avi":  models.MediaTypeVideo,
	".webm": models.MediaTypeVideo,
}

// UploadItem is one file of an upload batch, already read into memory
// (uploads are capped well below anything that would make that a
// problem). OriginalName is descriptive only and never used to build
// storage paths.
type UploadItem struct {
	Data         []byte
	OriginalName string
	MimeType     string
	DeclaredType models.MediaType // optional; inferred from MimeType when empty
	AltText      *string
	Description  *string
	IsFeatured   bool
	SortOrder    *int // nil defaults to the batch index
}

// Limits bounds an upload batch.
type Limits struct {
	MaxBatchSize int
	MaxFileSize  int64
}

// withDefaults fills in zero values.
func (l Limits) withDefaults() Limits {
	if l.MaxBatchSize <= 0 {
		l.MaxBatchSize = DefaultMaxBatchSize
	}
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = DefaultMaxFileSize
	}
	return l
}

// ResolveType picks the media type for an item: the declared type when
// valid, otherwise inferred from the MIME prefix (video/* is video,
// everything else is image).
func ResolveType(declared models.MediaType, mimeType string) models.MediaType {
	if declared == models.MediaTypeImage || declared == models.MediaTypeVideo {
		return declared
	}
	if strings.HasPrefix(mimeType, "video/") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

// folderFor maps a media type to its blob store folder.
func folderFor(t models.MediaType) string {
	if t == models.MediaTypeVideo {
		return videoFolder
	}
	return imageFolder
}

// validateItem checks one item's size and extension against the
// allow-list for its resolved type.
func validateItem(item UploadItem, resolved models.MediaType, limits Limits) error {
	if int64(len(item.Data)) > limits.MaxFileSize {
		return fmt.Errorf("%w: %q is %d bytes (limit %d)",
			ErrFileTooLarge, item.OriginalName, len(item.Data), limits.MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(item.OriginalName))
	extType, ok := allowedExtensions[ext]
	if !ok {
		return fmt.Errorf("%w: extension %q", ErrTypeNotAllowed, ext)
	}
	if extType != resolved {
		return fmt.Errorf("%w: extension %q does not match type %q",
			ErrTypeNotAllowed, ext, resolved)
	}
	return nil
}
