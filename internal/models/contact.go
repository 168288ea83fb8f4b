// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactStatus tracks the handling state of a contact-form message.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     *string       `json:"phone,omitempty"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	Notes     *string       `json:"notes,omitempty"`
	ReadAt    *time.Time    `json:"read_at,omitempty"`
	RepliedAt *time.Time    `json:"replied_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ReferenceNumber returns a short human-friendly identifier shown to the
// sender after submission.
func (c *Contact) ReferenceNumber() string {
	return "MSG-" + strings.ToUpper(c.ID.String()[:8])
}

// IsRead returns true once the message has been opened by an admin.
func (c *Contact) IsRead() bool {
	return c.ReadAt != nil
}
