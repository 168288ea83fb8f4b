// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores blobs on the local filesystem under a base directory.
type Local struct {
	baseDir   string
	publicURL string
}

// NewLocal creates a local-disk store rooted at baseDir. Files are
// served by an external web server (or a file handler) under publicURL.
func NewLocal(baseDir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &Local{
		baseDir:   baseDir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Put writes body to folder/<random>.<ext> and returns the relative path.
func (l *Local) Put(ctx context.Context, folder, ext, contentType string, body io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(cleanFolder(folder), uuid.NewString()+sanitizeExt(ext))
	abs := filepath.Join(l.baseDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("storage: create folder: %w", err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(abs)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("storage: close file: %w", err)
	}

	return rel, nil
}

// Exists reports whether a blob is present at path.
func (l *Local) Exists(ctx context.Context, p string) (bool, error) {
	abs, err := l.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat %s: %w", p, err)
	}
	return true, nil
}

// Delete removes the blob at path. Missing blobs are a no-op.
func (l *Local) Delete(ctx context.Context, p string) (bool, error) {
	abs, err := l.resolve(p)
	if err != nil {
		return false, err
	}
	err = os.Remove(abs)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: delete %s: %w", p, err)
	}
	return true, nil
}

// URL returns the public URL for a stored path.
func (l *Local) URL(p string) string {
	return l.publicURL + "/" + strings.TrimLeft(p, "/")
}

// resolve maps a stored path to an absolute filesystem path, rejecting
// anything that would escape the base directory.
func (l *Local) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("storage: invalid path %q", p)
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(clean)), nil
}

// cleanFolder normalizes a logical folder name to a safe relative path.
func cleanFolder(folder string) string {
	clean := path.Clean("/" + folder)
	return strings.TrimLeft(clean, "/")
}

// sanitizeExt keeps only a plain lowercase extension like ".jpg".
func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
