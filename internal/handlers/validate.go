// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxBodyBytes      = 1 << 20 // 1 MiB request body cap
	maxTitleLen       = 300
	maxMarkdownLen    = 100_000
	maxTagLen         = 50
	maxTags           = 20
	maxMotivationLen  = 5_000
	maxPortfolioLen   = 500
	maxDisplayNameLen = 100
	minPasswordLen    = 8
)

// validatePostInput checks post field sizes and returns the first problem
// found, or "". Emptiness rules (title required, content required) live in
// the service; these are transport-level sanity limits.
func validatePostInput(title, markdown string, tags []string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if utf8.RuneCountInString(markdown) > maxMarkdownLen {
		return "content is too long (max 100,000 characters)"
	}
	if len(tags) > maxTags {
		return "too many tags (max 20)"
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLen {
			return "tag is too long (max 50 characters)"
		}
	}
	return ""
}

// validateRegistration checks signup inputs.
func validateRegistration(email, password, displayName string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required"
	}
	if len(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	if strings.TrimSpace(displayName) == "" {
		return "display name is required"
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "display name is too long (max 100 characters)"
	}
	return ""
}

// validateDisplayName checks a profile display name.
func validateDisplayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "display name is required"
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return "display name is too long (max 100 characters)"
	}
	return ""
}

// validateApplication checks blogger application inputs.
func validateApplication(motivation, portfolioURL string) string {
	if strings.TrimSpace(motivation) == "" {
		return "motivation is required"
	}
	if utf8.RuneCountInString(motivation) > maxMotivationLen {
		return "motivation is too long (max 5,000 characters)"
	}
	if utf8.RuneCountInString(portfolioURL) > maxPortfolioLen {
		return "portfolio URL is too long (max 500 characters)"
	}
	return ""
}
