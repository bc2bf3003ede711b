// Package dto provides data transfer objects for the inventory HTTP layer.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	appValidation "github.com/kiwistore/kiwi/internal/validation"
)

// CreateObjectRequest represents the API request for registering an object.
type CreateObjectRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Tags        []string        `json:"tags"`
	Metadata    json.RawMessage `json:"metadata"`
	LocationID  *string         `json:"location_id"`
}

// Validate validates the CreateObjectRequest.
func (r *CreateObjectRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 200).Error("name must be between 1 and 200 characters"),
		),
		validation.Field(&r.Type,
			validation.Required.Error("type is required"),
			appValidation.NotBlank,
			validation.Length(1, 60).Error("type must be between 1 and 60 characters"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 2000).Error("description must be at most 2000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// MoveObjectRequest represents the API request for relocating an object.
type MoveObjectRequest struct {
	LocationID string `json:"location_id"`
}

// Validate validates the MoveObjectRequest.
func (r *MoveObjectRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.LocationID,
			validation.Required.Error("location_id is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateTagsRequest represents the API request for replacing an object's tags.
type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

// Validate validates the UpdateTagsRequest.
func (r *UpdateTagsRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Tags,
			validation.Length(0, 50).Error("at most 50 tags are allowed"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateTextRequest represents the API request for updating an object's name
// and description.
type UpdateTextRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate validates the UpdateTextRequest.
func (r *UpdateTextRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 200).Error("name must be between 1 and 200 characters"),
		),
		validation.Field(&r.Description,
			validation.Length(0, 2000).Error("description must be at most 2000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// UpdateMetadataRequest represents the API request for replacing an object's
// metadata document.
type UpdateMetadataRequest struct {
	Metadata json.RawMessage `json:"metadata"`
}

// CreateLocationRequest represents the API request for registering a location.
type CreateLocationRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Validate validates the CreateLocationRequest.
func (r *CreateLocationRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 200).Error("name must be between 1 and 200 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}
