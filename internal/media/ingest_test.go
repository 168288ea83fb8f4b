// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Ingestion tests run against a real PostgreSQL and a temp-dir blob
// store, and are skipped when the database is unreachable.
package media

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"oikos/internal/database"
	"oikos/internal/models"
	"oikos/internal/storage"
	"oikos/internal/store"
)

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "oikos")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "oikos")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testService wires an ingestion service to a temp-dir blob store and a
// fresh test project, and returns both plus the blob base dir.
func testService(t *testing.T, slug string, limits Limits) (*Service, *models.Project, string) {
	t.Helper()

	db := testDB(t)

	cat, err := store.NewCategoryStore(db).Create(&models.Category{
		Name: slug + "-cat", Slug: slug + "-cat", IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	project, err := store.NewProjectStore(db).Create(&models.Project{
		Title:       "Ingest Host",
		Slug:        slug,
		Description: "receives uploads",
		Status:      models.StatusPublished,
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM projects WHERE id = $1", project.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
	})

	dir := t.TempDir()
	blobs, err := storage.NewLocal(dir, "http://localhost/uploads")
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}

	return NewService(db, store.NewMediaStore(db), blobs, limits), project, dir
}

// countFiles returns the number of regular files under dir.
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return n
}

func TestIngestStoresBatch(t *testing.T) {
	svc, project, dir := testService(t, "test-ingest-batch", Limits{})
	ctx := context.Background()

	alt := "entrance hall"
	items := []UploadItem{
		{Data: pngBytes(t, 20, 10), OriginalName: "hall.png", MimeType: "image/png", AltText: &alt, IsFeatured: true},
		{Data: pngBytes(t, 10, 10), OriginalName: "plan.png", MimeType: "image/png"},
	}

	created, err := svc.Ingest(ctx, project.ID, items)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created rows: got %d, want 2", len(created))
	}

	first := created[0]
	if first.Type != models.MediaTypeImage {
		t.Errorf("type: got %q, want image", first.Type)
	}
	if first.Width == nil || *first.Width != 20 || first.Height == nil || *first.Height != 10 {
		t.Error("expected probed pixel dimensions")
	}
	if first.AltText == nil || *first.AltText != alt {
		t.Error("expected alt text on first row")
	}
	if !first.IsFeatured {
		t.Error("expected first row featured")
	}
	if created[1].SortOrder != 1 {
		t.Errorf("second row sort_order: got %d, want batch index 1", created[1].SortOrder)
	}

	// Both blobs must exist on disk under the images folder.
	if got := countFiles(t, dir); got != 2 {
		t.Errorf("stored files: got %d, want 2", got)
	}
	if _, err := os.Stat(filepath.Join(dir, first.Path)); err != nil {
		t.Errorf("stored blob missing: %v", err)
	}
}

func TestIngestRollsBackWholeBatch(t *testing.T) {
	svc, project, dir := testService(t, "test-ingest-rollback", Limits{})
	ctx := context.Background()

	// The second item fails validation after the first blob is stored.
	items := []UploadItem{
		{Data: pngBytes(t, 20, 10), OriginalName: "ok.png", MimeType: "image/png"},
		{Data: []byte("MZ"), OriginalName: "payload.exe", MimeType: "application/octet-stream"},
	}

	_, err := svc.Ingest(ctx, project.ID, items)
	if !errors.Is(err, ErrTypeNotAllowed) {
		t.Fatalf("Ingest: got %v, want ErrTypeNotAllowed", err)
	}

	rows, err := store.NewMediaStore(svc.db).ListByProject(project.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows after rollback: got %d, want 0", len(rows))
	}
	if got := countFiles(t, dir); got != 0 {
		t.Errorf("files after rollback: got %d, want 0", got)
	}
}

func TestIngestRejectsOversizedFileMidBatch(t *testing.T) {
	svc, project, dir := testService(t, "test-ingest-oversize", Limits{MaxFileSize: 64})
	ctx := context.Background()

	// The first item fits the 64-byte cap; the second cannot.
	items := []UploadItem{
		{Data: []byte("tiny"), OriginalName: "small.png", MimeType: "image/png"},
		{Data: pngBytes(t, 200, 200), OriginalName: "huge.png", MimeType: "image/png"},
	}

	_, err := svc.Ingest(ctx, project.ID, items)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Ingest: got %v, want ErrFileTooLarge", err)
	}
	if got := countFiles(t, dir); got != 0 {
		t.Errorf("files after rollback: got %d, want 0", got)
	}
}

func TestIngestRejectsEmptyAndOversizedBatches(t *testing.T) {
	svc, project, _ := testService(t, "test-ingest-limits", Limits{MaxBatchSize: 2})
	ctx := context.Background()

	if _, err := svc.Ingest(ctx, project.ID, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("empty batch: got %v, want ErrEmptyBatch", err)
	}

	three := []UploadItem{
		{Data: pngBytes(t, 2, 2), OriginalName: "a.png", MimeType: "image/png"},
		{Data: pngBytes(t, 2, 2), OriginalName: "b.png", MimeType: "image/png"},
		{Data: pngBytes(t, 2, 2), OriginalName: "c.png", MimeType: "image/png"},
	}
	if _, err := svc.Ingest(ctx, project.ID, three); !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("oversized batch: got %v, want ErrBatchTooLarge", err)
	}
}

func TestIngestGeneratesThumbnailForWideImages(t *testing.T) {
	svc, project, dir := testService(t, "test-ingest-thumbs", Limits{})
	ctx := context.Background()

	items := []UploadItem{
		{Data: pngBytes(t, 800, 600), OriginalName: "wide.png", MimeType: "image/png"},
	}

	created, err := svc.Ingest(ctx, project.ID, items)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	m := created[0]
	if m.ThumbnailPath == nil {
		t.Fatal("expected thumbnail path for a wide image")
	}
	if _, err := os.Stat(filepath.Join(dir, *m.ThumbnailPath)); err != nil {
		t.Errorf("thumbnail blob missing: %v", err)
	}
	// Original plus thumbnail.
	if got := countFiles(t, dir); got != 2 {
		t.Errorf("stored files: got %d, want 2", got)
	}
}

func TestDeleteMediaFiles(t *testing.T) {
	svc, project, dir := testService(t, "test-ingest-lifecycle", Limits{})
	ctx := context.Background()

	created, err := svc.Ingest(ctx, project.ID, []UploadItem{
		{Data: pngBytes(t, 800, 600), OriginalName: "gone.png", MimeType: "image/png"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	failures := svc.DeleteMediaFiles(ctx, &created[0])
	if len(failures) != 0 {
		t.Fatalf("DeleteMediaFiles: %v", failures)
	}
	if got := countFiles(t, dir); got != 0 {
		t.Errorf("files after delete: got %d, want 0", got)
	}

	// Deleting again is a no-op, not a failure.
	failures = svc.DeleteMediaFiles(ctx, &created[0])
	if len(failures) != 0 {
		t.Errorf("repeat delete reported failures: %v", failures)
	}
}
