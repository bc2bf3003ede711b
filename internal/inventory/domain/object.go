// Package domain defines inventory domain models: objects placed in
// locations, searchable by text and tags.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Object statuses.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Object is the full detail row of a tracked object.
type Object struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Type              string
	Status            string
	CurrentLocationID *uuid.UUID
	Tags              []string
	Metadata          json.RawMessage
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SearchItem is one full-text search hit, ranked by relevance.
type SearchItem struct {
	ObjectID uuid.UUID
	Name     string
	Rank     float64
}

// FuzzyItem is one trigram-similarity hit for typo-tolerant lookup.
type FuzzyItem struct {
	ObjectID uuid.UUID
	Name     string
	Score    float64
}

// Location is a place an object can be moved to. Locations nest via ParentID.
type Location struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
