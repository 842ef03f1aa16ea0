// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and collision resolution against an injected existence check.
package slug

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

var (
	// nonSlugRun matches a maximal run of characters that cannot appear in
	// a slug; each run collapses into a single hyphen.
	nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)
)

const (
	// suffixBytes is the byte length of the random disambiguation suffix
	// (4 bytes = 8 hex chars).
	suffixBytes = 4

	// maxAttempts bounds how many suffixed candidates ResolveUnique tries
	// before failing closed.
	maxAttempts = 5
)

// ErrExhausted is returned by ResolveUnique when every candidate within the
// retry budget already exists.
var ErrExhausted = errors.New("slug: could not find a free slug")

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World!  2024" → "hello-world-2024"
//
// Input consisting only of whitespace or punctuation yields an empty string;
// callers must disambiguate before persisting (see ResolveUnique).
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonSlugRun.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ResolveUnique returns candidate unchanged when it is free, otherwise a
// suffixed variant ("<candidate>-<random>") that is re-checked against exists.
// An empty candidate falls back to "untitled" so an empty slug is never
// persisted. After maxAttempts taken candidates it fails closed with
// ErrExhausted rather than returning an unverified slug.
func ResolveUnique(ctx context.Context, candidate string, exists ExistsFunc) (string, error) {
	if candidate == "" {
		candidate = "untitled"
	}

	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	for i := 0; i < maxAttempts; i++ {
		suffixed := candidate + "-" + randomSuffix()
		taken, err := exists(ctx, suffixed)
		if err != nil {
			return "", err
		}
		if !taken {
			return suffixed, nil
		}
	}

	return "", ErrExhausted
}

// randomSuffix returns a short random hex string for slug disambiguation.
// Collision-resistant is enough here; this is not a security boundary.
func randomSuffix() string {
	b := make([]byte, suffixBytes)
	rand.Read(b)
	return hex.EncodeToString(b)
}
