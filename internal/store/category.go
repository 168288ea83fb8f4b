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

// ErrCategoryInUse is returned when deleting a category that still has
// projects referencing it.
type ErrCategoryInUse struct {
	ProjectCount int
}

func (e *ErrCategoryInUse) Error() string {
	return fmt.Sprintf("category is referenced by %d projects", e.ProjectCount)
}

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, is_active, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories ordered by sort_order then name, with project
// counts. When activeOnly is set, inactive categories are excluded.
func (s *CategoryStore) List(activeOnly bool) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.is_active, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(p.id) AS project_count
		FROM categories c
		LEFT JOIN projects p ON p.category_id = c.id`
	if activeOnly {
		query += `
		WHERE c.is_active`
	}
	query += `
		GROUP BY c.id
		ORDER BY c.sort_order, c.name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.ProjectCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// NameTaken reports whether another category already uses the given name.
// exclude skips a category (pass uuid.Nil when creating).
func (s *CategoryStore) NameTaken(name string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1 AND id <> $2)
	`, name, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("category name taken: %w", err)
	}
	return taken, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.IsActive, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, is_active = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
	`, c.Name, c.Slug, c.Description, c.IsActive, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// ProjectCount returns the number of projects referencing a category.
func (s *CategoryStore) ProjectCount(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM projects WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("category project count: %w", err)
	}
	return count, nil
}

// Delete removes a category by ID. A category that still has projects
// referencing it is not deleted; *ErrCategoryInUse reports the dependent
// count. The foreign key constraint is the backstop for races.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	count, err := s.ProjectCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ErrCategoryInUse{ProjectCount: count}
	}

	if _, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
