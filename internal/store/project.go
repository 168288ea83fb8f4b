// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"oikos/internal/models"
	"oikos/internal/slug"
)

// maxSlugAttempts bounds the disambiguation loop when generating a
// unique slug from a title.
const maxSlugAttempts = 50

// ProjectStore manages portfolio projects in the database.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore returns a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, title, slug, description, long_description, client,
	location, project_date, area, status, is_featured, sort_order,
	category_id, tags, featured_image, created_at, updated_at`

// scanProject scans a project row, decoding the JSONB tags column.
func scanProject(scanner interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	var tags []byte
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.LongDescription,
		&p.Client, &p.Location, &p.ProjectDate, &p.Area, &p.Status,
		&p.IsFeatured, &p.SortOrder, &p.CategoryID, &tags,
		&p.FeaturedImage, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &p, nil
}

// encodeTags serializes a tag set for the JSONB column. An empty or nil
// slice is stored as an empty array, never NULL.
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return data, nil
}

// SlugTaken reports whether another project already uses the given slug.
// exclude skips a project (pass uuid.Nil when creating).
func (s *ProjectStore) SlugTaken(candidate string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM projects WHERE slug = $1 AND id <> $2)
	`, candidate, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("project slug taken: %w", err)
	}
	return taken, nil
}

// UniqueSlug generates a slug from title, disambiguating collisions with
// a numeric suffix ("villa", "villa-2", "villa-3", ...).
func (s *ProjectStore) UniqueSlug(title string, exclude uuid.UUID) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "project"
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := s.SlugTaken(candidate, exclude)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	// Extremely unlikely; fall back to a random suffix.
	return base + "-" + uuid.NewString()[:8], nil
}

// Create inserts a new project. When p.Slug is empty, a unique slug is
// derived from the title.
func (s *ProjectStore) Create(p *models.Project) (*models.Project, error) {
	if p.Slug == "" {
		generated, err := s.UniqueSlug(p.Title, uuid.Nil)
		if err != nil {
			return nil, err
		}
		p.Slug = generated
	}

	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO projects (title, slug, description, long_description, client,
			location, project_date, area, status, is_featured, sort_order,
			category_id, tags, featured_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+projectColumns,
		p.Title, p.Slug, p.Description, p.LongDescription, p.Client,
		p.Location, p.ProjectDate, p.Area, p.Status, p.IsFeatured,
		p.SortOrder, p.CategoryID, tags, p.FeaturedImage,
	)
	result, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return result, nil
}

// FindByID retrieves a project by ID. Returns nil if not found.
func (s *ProjectStore) FindByID(id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return p, nil
}

// FindByIdentifier retrieves a project by UUID or slug. Returns nil if
// not found.
func (s *ProjectStore) FindByIdentifier(identifier string) (*models.Project, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		return s.FindByID(id)
	}

	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE slug = $1`, identifier)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by slug: %w", err)
	}
	return p, nil
}

// ProjectFilter describes the optional filters for List.
type ProjectFilter struct {
	Status       models.ProjectStatus // empty = all
	CategorySlug string               // empty = all
	Featured     *bool                // nil = all
	Search       string               // matches title, description, client
	Tag          string               // matches the JSONB tags array
	SortBy       string               // whitelisted; default project_date
	SortDesc     bool
	Page         int // 1-based
	PerPage      int // capped at 50
}

// allowedProjectSorts whitelists sortable columns to keep the ORDER BY
// clause safe for interpolation.
var allowedProjectSorts = map[string]bool{
	"project_date": true,
	"created_at":   true,
	"title":        true,
	"sort_order":   true,
}

// List returns projects matching the filter plus the total match count
// for pagination.
func (s *ProjectStore) List(f ProjectFilter) ([]models.Project, int, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "p.status = "+arg(f.Status))
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = "+arg(f.CategorySlug))
	}
	if f.Featured != nil {
		where = append(where, "p.is_featured = "+arg(*f.Featured))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ph := arg(pattern)
		where = append(where, "(p.title ILIKE "+ph+" OR p.description ILIKE "+ph+" OR p.client ILIKE "+ph+")")
	}
	if f.Tag != "" {
		where = append(where, "p.tags @> "+arg(fmt.Sprintf(`[%q]`, f.Tag))+"::jsonb")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}
	from := ` FROM projects p JOIN categories c ON c.id = p.category_id` + clause

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	sortBy := f.SortBy
	if !allowedProjectSorts[sortBy] {
		sortBy = "project_date"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 12
	}
	if perPage > 50 {
		perPage = 50
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + prefixColumns("p", projectColumns) + from +
		fmt.Sprintf(" ORDER BY p.%s %s NULLS LAST", sortBy, dir) +
		" LIMIT " + arg(perPage) + " OFFSET " + arg((page-1)*perPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// Featured returns published featured projects, newest first.
func (s *ProjectStore) Featured(limit int) ([]models.Project, error) {
	if limit <= 0 || limit > 12 {
		limit = 6
	}
	rows, err := s.db.Query(`
		SELECT `+projectColumns+`
		FROM projects
		WHERE status = 'published' AND is_featured
		ORDER BY project_date DESC NULLS LAST
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured projects: %w", err)
	}
	defer rows.Close()

	var items []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Update modifies an existing project.
func (s *ProjectStore) Update(p *models.Project) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE projects SET
			title = $1, slug = $2, description = $3, long_description = $4,
			client = $5, location = $6, project_date = $7, area = $8,
			status = $9, is_featured = $10, sort_order = $11,
			category_id = $12, tags = $13, featured_image = $14,
			updated_at = NOW()
		WHERE id = $15
	`, p.Title, p.Slug, p.Description, p.LongDescription, p.Client,
		p.Location, p.ProjectDate, p.Area, p.Status, p.IsFeatured,
		p.SortOrder, p.CategoryID, tags, p.FeaturedImage, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Delete removes a project row. Owned media rows go with it via the
// foreign key cascade; blob cleanup is the caller's responsibility.
func (s *ProjectStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// CountByStatus returns project counts keyed by status.
func (s *ProjectStore) CountByStatus() (map[models.ProjectStatus]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count projects by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ProjectStatus]int)
	for rows.Next() {
		var status models.ProjectStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan project count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
