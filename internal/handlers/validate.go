package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"inkwell/internal/slug"
)

// Validation limits, in runes.
const (
	maxCategoryNameLen = 100
	maxDescriptionLen  = 1_000
	maxTagNameLen      = 50
	maxTitleLen        = 300
	maxSlugLen         = slug.MaxLen
	maxBodyLen         = 100_000
	maxEmailLen        = 254
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
)

// validateCategory checks category inputs and returns the first error found.
func validateCategory(name, slugValue, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return "Name is too long (max 100 characters)."
	}
	if msg := validateSlug(slugValue); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}

// validateTag checks tag inputs.
func validateTag(name, slugValue string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return "Name is too long (max 50 characters)."
	}
	return validateSlug(slugValue)
}

// validateArticle checks article inputs.
func validateArticle(title, slugValue, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if msg := validateSlug(slugValue); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateSlug accepts an empty slug (derived later) or one that is already
// in canonical form.
func validateSlug(s string) string {
	if s == "" {
		return ""
	}
	if utf8.RuneCountInString(s) > maxSlugLen {
		return "Slug is too long (max 120 characters)."
	}
	if slug.Generate(s) != s {
		return "Slug may only contain lowercase letters, digits and single hyphens."
	}
	return ""
}

// validateLogin checks login inputs.
func validateLogin(email, password string) string {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "Email and password are required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long."
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is not valid."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long."
	}
	return ""
}
