// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"oikos/internal/media"
	"oikos/internal/models"
)

// Validation limits for form fields.
const (
	maxNameLen        = 255
	maxTitleLen       = 255
	maxSlugLen        = 255
	maxDescriptionLen = 5_000
	maxLongDescLen    = 50_000
	maxSubjectLen     = 255
	maxMessageLen     = 10_000
	maxNotesLen       = 5_000
	maxTags           = 20
	maxTagLen         = 50
)

// validEmail reports whether s parses as a single RFC 5322 address.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// validateProject checks project form inputs and returns per-field errors.
func validateProject(title, description, categoryID string, tags []string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required."
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		errs["title"] = fmt.Sprintf("Title is too long (max %d characters).", maxTitleLen)
	}

	if strings.TrimSpace(description) == "" {
		errs["description"] = "Description is required."
	} else if utf8.RuneCountInString(description) > maxDescriptionLen {
		errs["description"] = fmt.Sprintf("Description is too long (max %d characters).", maxDescriptionLen)
	}

	if strings.TrimSpace(categoryID) == "" {
		errs["category_id"] = "Category is required."
	}

	if len(tags) > maxTags {
		errs["tags"] = fmt.Sprintf("Too many tags (max %d).", maxTags)
	} else {
		for _, t := range tags {
			if utf8.RuneCountInString(t) > maxTagLen {
				errs["tags"] = fmt.Sprintf("Tag %q is too long (max %d characters).", t, maxTagLen)
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateCategory checks category form inputs.
func validateCategory(name string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs["name"] = fmt.Sprintf("Name is too long (max %d characters).", maxNameLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateContact checks public contact form inputs.
func validateContact(name, email, subject, message string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs["name"] = fmt.Sprintf("Name is too long (max %d characters).", maxNameLen)
	}

	if strings.TrimSpace(email) == "" {
		errs["email"] = "Email is required."
	} else if !validEmail(email) {
		errs["email"] = "Email address is not valid."
	}

	if strings.TrimSpace(subject) == "" {
		errs["subject"] = "Subject is required."
	} else if utf8.RuneCountInString(subject) > maxSubjectLen {
		errs["subject"] = fmt.Sprintf("Subject is too long (max %d characters).", maxSubjectLen)
	}

	if strings.TrimSpace(message) == "" {
		errs["message"] = "Message is required."
	} else if utf8.RuneCountInString(message) > maxMessageLen {
		errs["message"] = fmt.Sprintf("Message is too long (max %d characters).", maxMessageLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// formValues returns a multipart form field accepting both "name" and
// "name[]" conventions.
func formValues(form *multipart.Form, name string) []string {
	if vs, ok := form.Value[name]; ok {
		return vs
	}
	return form.Value[name+"[]"]
}

// formFiles is the file-field counterpart of formValues.
func formFiles(form *multipart.Form, name string) []*multipart.FileHeader {
	if fs, ok := form.File[name]; ok {
		return fs
	}
	return form.File[name+"[]"]
}

// valueAt returns the i-th element of a parallel metadata array, or ""
// when the array is shorter than the file list.
func valueAt(vs []string, i int) string {
	if i < len(vs) {
		return vs[i]
	}
	return ""
}

// parseUploadBatch reads the multipart upload form into a batch of items.
// Files arrive under "files" with parallel metadata arrays ("alt_texts",
// "descriptions", "types", "is_featured", "sort_orders") matched by
// index; missing metadata entries fall back to safe defaults.
func parseUploadBatch(r *http.Request) ([]media.UploadItem, error) {
	form := r.MultipartForm
	if form == nil {
		return nil, fmt.Errorf("no multipart form")
	}

	files := formFiles(form, "files")
	altTexts := formValues(form, "alt_texts")
	descriptions := formValues(form, "descriptions")
	types := formValues(form, "types")
	featured := formValues(form, "is_featured")
	sortOrders := formValues(form, "sort_orders")

	items := make([]media.UploadItem, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}

		item := media.UploadItem{
			Data:         data,
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			DeclaredType: models.MediaType(valueAt(types, i)),
			IsFeatured:   parseBool(valueAt(featured, i)),
		}
		if alt := valueAt(altTexts, i); alt != "" {
			item.AltText = &alt
		}
		if desc := valueAt(descriptions, i); desc != "" {
			item.Description = &desc
		}
		if so := valueAt(sortOrders, i); so != "" {
			if n, err := strconv.Atoi(so); err == nil && n >= 0 {
				item.SortOrder = &n
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// parseBool accepts the form encodings of a checkbox or boolean field.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
