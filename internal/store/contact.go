// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"oikos/internal/models"
)

// ContactStore manages contact-form messages in the database.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore returns a new ContactStore.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, name, email, phone, subject, message, status, notes,
	read_at, replied_at, created_at, updated_at`

// scanContact scans a contact row from the result set.
func scanContact(scanner interface{ Scan(...any) error }) (*models.Contact, error) {
	var c models.Contact
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message,
		&c.Status, &c.Notes, &c.ReadAt, &c.RepliedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contact message with status "new".
func (s *ContactStore) Create(c *models.Contact) (*models.Contact, error) {
	row := s.db.QueryRow(`
		INSERT INTO contacts (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contactColumns,
		c.Name, c.Email, c.Phone, c.Subject, c.Message,
	)
	created, err := scanContact(row)
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

// FindByID retrieves a contact by ID. Returns nil if not found.
func (s *ContactStore) FindByID(id uuid.UUID) (*models.Contact, error) {
	row := s.db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact by id: %w", err)
	}
	return c, nil
}

// ContactFilter describes the optional filters for List.
type ContactFilter struct {
	Status  models.ContactStatus // empty = all
	Search  string               // matches name, email, subject, message
	Page    int                  // 1-based
	PerPage int                  // capped at 50
}

// List returns contacts matching the filter, newest first, plus the
// total match count.
func (s *ContactStore) List(f ContactFilter) ([]models.Contact, int, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Search != "" {
		ph := arg("%" + f.Search + "%")
		where = append(where, "(name ILIKE "+ph+" OR email ILIKE "+ph+" OR subject ILIKE "+ph+" OR message ILIKE "+ph+")")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM contacts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 50 {
		perPage = 50
	}
	page := f.Page
	if page < 1 {
		page = 1
	}

	query := `SELECT ` + contactColumns + ` FROM contacts` + clause +
		` ORDER BY created_at DESC LIMIT ` + arg(perPage) + ` OFFSET ` + arg((page-1)*perPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var items []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan contact: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// ContactStats summarizes message counts for the admin inbox.
type ContactStats struct {
	Total   int `json:"total"`
	New     int `json:"new"`
	Unread  int `json:"unread"`
	Replied int `json:"replied"`
}

// Stats returns aggregate counts over all contacts.
func (s *ContactStore) Stats() (*ContactStats, error) {
	var st ContactStats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'new'),
		       COUNT(*) FILTER (WHERE read_at IS NULL),
		       COUNT(*) FILTER (WHERE status = 'replied')
		FROM contacts
	`).Scan(&st.Total, &st.New, &st.Unread, &st.Replied)
	if err != nil {
		return nil, fmt.Errorf("contact stats: %w", err)
	}
	return &st, nil
}

// CountRecentByEmail returns how many messages an email address sent
// since the given time. Used as the database backstop for the Valkey
// rate limiter.
func (s *ContactStore) CountRecentByEmail(email string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM contacts WHERE email = $1 AND created_at > $2
	`, email, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent contacts: %w", err)
	}
	return count, nil
}

// UpdateStatus sets a contact's status and optional admin notes.
// Moving to "replied" stamps replied_at the first time.
func (s *ContactStore) UpdateStatus(id uuid.UUID, status models.ContactStatus, notes *string) (*models.Contact, error) {
	row := s.db.QueryRow(`
		UPDATE contacts SET
			status = $1,
			notes = COALESCE($2, notes),
			replied_at = CASE WHEN $1 = 'replied' AND replied_at IS NULL THEN NOW() ELSE replied_at END,
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+contactColumns,
		status, notes, id,
	)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return c, nil
}

// MarkRead stamps read_at and moves a "new" message to "read".
func (s *ContactStore) MarkRead(id uuid.UUID) (*models.Contact, error) {
	row := s.db.QueryRow(`
		UPDATE contacts SET
			read_at = COALESCE(read_at, NOW()),
			status = CASE WHEN status = 'new' THEN 'read' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact read: %w", err)
	}
	return c, nil
}

// MarkReplied stamps replied_at and sets status to "replied".
func (s *ContactStore) MarkReplied(id uuid.UUID) (*models.Contact, error) {
	row := s.db.QueryRow(`
		UPDATE contacts SET
			replied_at = COALESCE(replied_at, NOW()),
			status = 'replied',
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+contactColumns, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mark contact replied: %w", err)
	}
	return c, nil
}

// Delete removes a contact by ID.
func (s *ContactStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
