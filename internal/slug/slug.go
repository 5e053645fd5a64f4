// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes free-form labels into lowercase hyphenated tags,
// so "Adobe XD" and "adobe_xd" both become "adobe-xd".
package slug

import (
	"regexp"
	"strings"
)

var (
	// separators become hyphens.
	separators = regexp.MustCompile(`[\s_/]+`)
	// nonTag matches anything that isn't a lowercase letter, digit, or hyphen.
	nonTag = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a tag from the given string.
// Example: "UX Research!" → "ux-research"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, "-")
	result = nonTag.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Tags normalizes every label with Generate, dropping blanks and
// duplicates while keeping first-seen order.
func Tags(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		tag := Generate(l)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
