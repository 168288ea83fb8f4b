// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage abstracts the blob backend holding uploaded media
// files. Two backends are provided: local disk for single-node
// deployments and S3-compatible object storage. Stored paths are opaque
// strings generated by the backend; user-supplied filenames are never
// used for path construction.
package storage

import (
	"context"
	"io"
)

// Store is the blob backend contract used by the media pipeline.
type Store interface {
	// Put stores body under a logical folder and returns the
	// backend-assigned unique path. Concurrent uploads never collide:
	// names are random, not derived from user input.
	Put(ctx context.Context, folder, ext, contentType string, body io.Reader, size int64) (string, error)

	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes the blob at path. Deleting a missing blob is a
	// no-op: it returns (false, nil), never an error.
	Delete(ctx context.Context, path string) (bool, error)

	// URL returns the public URL for a stored path.
	URL(path string) string
}
