// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ProjectStatus tracks a project through its publication workflow.
type ProjectStatus string

const (
	StatusDraft     ProjectStatus = "draft"
	StatusPublished ProjectStatus = "published"
	StatusArchived  ProjectStatus = "archived"
)

// Project represents a portfolio project. Tags are persisted as a JSON
// array; Media rows are owned by the project and removed with it.
type Project struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Description     string        `json:"description"`
	LongDescription *string       `json:"long_description,omitempty"`
	Client          *string       `json:"client,omitempty"`
	Location        *string       `json:"location,omitempty"`
	ProjectDate     *time.Time    `json:"project_date,omitempty"`
	Area            *float64      `json:"area,omitempty"` // square meters
	Status          ProjectStatus `json:"status"`
	IsFeatured      bool          `json:"is_featured"`
	SortOrder       int           `json:"sort_order"`
	CategoryID      uuid.UUID     `json:"category_id"`
	Tags            []string      `json:"tags"`
	FeaturedImage   *string       `json:"featured_image,omitempty"` // direct blob path
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Virtual fields populated by store methods.
	Category *Category `json:"category,omitempty"`
	Media    []Media   `json:"media,omitempty"`
}

// IsPublished returns true if the project is publicly visible.
func (p *Project) IsPublished() bool {
	return p.Status == StatusPublished
}

// Excerpt returns the description truncated to 150 runes.
func (p *Project) Excerpt() string {
	const limit = 150
	if utf8.RuneCountInString(p.Description) <= limit {
		return p.Description
	}
	runes := []rune(p.Description)
	return string(runes[:limit]) + "..."
}

// FeaturedMedia returns the project's featured medium from the loaded
// Media slice, or nil if none is flagged.
func (p *Project) FeaturedMedia() *Media {
	for i := range p.Media {
		if p.Media[i].IsFeatured {
			return &p.Media[i]
		}
	}
	return nil
}
