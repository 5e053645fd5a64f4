// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxSubmissionImages caps the number of images in one submission.
const MaxSubmissionImages = 5

// Submission is a camper's response to a challenge. Campers may submit
// more than once per challenge.
type Submission struct {
	ID            uuid.UUID `json:"id"`
	ChallengeID   uuid.UUID `json:"challenge_id"`
	UserID        uuid.UUID `json:"user_id"`
	ImageURLs     []string  `json:"image_urls"`
	ThumbnailURLs []string  `json:"thumbnail_urls"`
	FigmaLink     *string   `json:"figma_link"`
	ExternalURL   *string   `json:"external_url"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`

	// Virtual fields populated by gallery queries.
	AuthorName     string  `json:"author_name,omitempty"`
	AuthorImage    *string `json:"author_image,omitempty"`
	ChallengeTitle string  `json:"challenge_title,omitempty"`
}
