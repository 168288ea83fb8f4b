// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost/uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return l, dir
}

func TestLocalPutExistsDelete(t *testing.T) {
	l, dir := newTestLocal(t)
	ctx := context.Background()

	body := strings.NewReader("hello blob")
	p, err := l.Put(ctx, "projects/images", ".jpg", "image/jpeg", body, 10)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(p, "projects/images/") || !strings.HasSuffix(p, ".jpg") {
		t.Errorf("path shape: got %q", p)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "hello blob" {
		t.Errorf("content: got %q", data)
	}

	exists, err := l.Exists(ctx, p)
	if err != nil || !exists {
		t.Errorf("Exists: got (%v, %v), want (true, nil)", exists, err)
	}

	removed, err := l.Delete(ctx, p)
	if err != nil || !removed {
		t.Errorf("Delete: got (%v, %v), want (true, nil)", removed, err)
	}

	exists, err = l.Exists(ctx, p)
	if err != nil || exists {
		t.Errorf("Exists after delete: got (%v, %v), want (false, nil)", exists, err)
	}
}

func TestLocalDeleteMissingIsNoOp(t *testing.T) {
	l, _ := newTestLocal(t)

	removed, err := l.Delete(context.Background(), "projects/images/nope.jpg")
	if err != nil {
		t.Fatalf("Delete (missing): %v", err)
	}
	if removed {
		t.Error("expected removed=false for missing blob")
	}
}

func TestLocalRejectsTraversal(t *testing.T) {
	l, _ := newTestLocal(t)
	ctx := context.Background()

	// Folder names are normalized, never allowed to escape the base dir.
	p, err := l.Put(ctx, "../../etc", ".txt", "text/plain", strings.NewReader("x"), 1)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if strings.Contains(p, "..") {
		t.Errorf("returned path contains traversal: %q", p)
	}
}

func TestLocalURL(t *testing.T) {
	l, _ := newTestLocal(t)

	got := l.URL("projects/images/a.jpg")
	want := "http://localhost/uploads/projects/images/a.jpg"
	if got != want {
		t.Errorf("URL: got %q, want %q", got, want)
	}
}

func TestSanitizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".jpg", ".jpg"},
		{"JPG", ".jpg"},
		{".MP4", ".mp4"},
		{"", ""},
		{".j pg", ""},
		{"../x", ""},
	}
	for _, tt := range tests {
		if got := sanitizeExt(tt.in); got != tt.want {
			t.Errorf("sanitizeExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
