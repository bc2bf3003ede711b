package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/inventory/domain"
)

// ObjectResponse represents the API response for object detail.
type ObjectResponse struct {
	ObjectID    uuid.UUID       `json:"object_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	LocationID  *uuid.UUID      `json:"location_id"`
	Tags        []string        `json:"tags"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MapObject maps a domain object to its API representation.
func MapObject(object *domain.Object) ObjectResponse {
	return ObjectResponse{
		ObjectID:    object.ID,
		Name:        object.Name,
		Description: object.Description,
		Type:        object.Type,
		Status:      object.Status,
		LocationID:  object.CurrentLocationID,
		Tags:        object.Tags,
		Metadata:    object.Metadata,
		CreatedAt:   object.CreatedAt,
		UpdatedAt:   object.UpdatedAt,
	}
}

// SearchItemResponse represents one ranked search hit.
type SearchItemResponse struct {
	ObjectID uuid.UUID `json:"object_id"`
	Name     string    `json:"name"`
	Rank     float64   `json:"rank"`
}

// SearchResponse represents the API response for ranked search.
type SearchResponse struct {
	Items []SearchItemResponse `json:"items"`
}

// MapSearchItems maps ranked search hits to their API representation.
func MapSearchItems(items []domain.SearchItem) SearchResponse {
	mapped := make([]SearchItemResponse, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, SearchItemResponse{
			ObjectID: item.ObjectID,
			Name:     item.Name,
			Rank:     item.Rank,
		})
	}
	return SearchResponse{Items: mapped}
}

// FuzzyItemResponse represents one similarity hit.
type FuzzyItemResponse struct {
	ObjectID uuid.UUID `json:"object_id"`
	Name     string    `json:"name"`
	Score    float64   `json:"score"`
}

// FuzzyResponse represents the API response for fuzzy search.
type FuzzyResponse struct {
	Items []FuzzyItemResponse `json:"items"`
}

// MapFuzzyItems maps similarity hits to their API representation.
func MapFuzzyItems(items []domain.FuzzyItem) FuzzyResponse {
	mapped := make([]FuzzyItemResponse, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, FuzzyItemResponse{
			ObjectID: item.ObjectID,
			Name:     item.Name,
			Score:    item.Score,
		})
	}
	return FuzzyResponse{Items: mapped}
}

// LocationResponse represents the API response for location detail.
type LocationResponse struct {
	LocationID uuid.UUID  `json:"location_id"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MapLocation maps a domain location to its API representation.
func MapLocation(location *domain.Location) LocationResponse {
	return LocationResponse{
		LocationID: location.ID,
		Name:       location.Name,
		ParentID:   location.ParentID,
		CreatedAt:  location.CreatedAt,
		UpdatedAt:  location.UpdatedAt,
	}
}
