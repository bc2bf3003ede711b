// Package http provides Gin handlers for the inventory endpoints. All routes
// here sit behind the authorization gate.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kiwistore/kiwi/internal/httputil"
	"github.com/kiwistore/kiwi/internal/inventory/http/dto"
	inventoryUseCase "github.com/kiwistore/kiwi/internal/inventory/usecase"
)

// Machine-readable codes for malformed requests.
const (
	codeInvalidJSON  = "invalid_json"
	codeInvalidID    = "invalid_id"
	codeInvalidLimit = "invalid_limit"
)

// ObjectHandler handles the /objects endpoints.
type ObjectHandler struct {
	objects inventoryUseCase.ObjectUseCase
	logger  *slog.Logger
}

// NewObjectHandler creates a new ObjectHandler.
func NewObjectHandler(objects inventoryUseCase.ObjectUseCase, logger *slog.Logger) *ObjectHandler {
	return &ObjectHandler{
		objects: objects,
		logger:  logger,
	}
}

// Create handles POST /objects.
func (h *ObjectHandler) Create(c *gin.Context) {
	var req dto.CreateObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	locationID, ok := optionalUUID(c, req.LocationID)
	if !ok {
		return
	}

	object, err := h.objects.CreateObject(c.Request.Context(), inventoryUseCase.CreateObjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Tags:        req.Tags,
		Metadata:    req.Metadata,
		LocationID:  locationID,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapObject(object))
}

// Get handles GET /objects/:id.
func (h *ObjectHandler) Get(c *gin.Context) {
	objectID, ok := pathUUID(c)
	if !ok {
		return
	}

	object, err := h.objects.GetObject(c.Request.Context(), objectID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapObject(object))
}

// Move handles POST /objects/:id/move.
func (h *ObjectHandler) Move(c *gin.Context) {
	objectID, ok := pathUUID(c)
	if !ok {
		return
	}

	var req dto.MoveObjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidID)
		return
	}

	if err := h.objects.MoveObject(c.Request.Context(), objectID, locationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateTags handles PUT /objects/:id/tags.
func (h *ObjectHandler) UpdateTags(c *gin.Context) {
	objectID, ok := pathUUID(c)
	if !ok {
		return
	}

	var req dto.UpdateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.objects.UpdateTags(c.Request.Context(), objectID, req.Tags); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateText handles PUT /objects/:id/text.
func (h *ObjectHandler) UpdateText(c *gin.Context) {
	objectID, ok := pathUUID(c)
	if !ok {
		return
	}

	var req dto.UpdateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.objects.UpdateText(c.Request.Context(), objectID, req.Name, req.Description); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateMetadata handles PUT /objects/:id/metadata.
func (h *ObjectHandler) UpdateMetadata(c *gin.Context) {
	objectID, ok := pathUUID(c)
	if !ok {
		return
	}

	var req dto.UpdateMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}

	if err := h.objects.UpdateMetadata(c.Request.Context(), objectID, req.Metadata); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// Search handles GET /objects/search.
func (h *ObjectHandler) Search(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httputil.BadRequestCodeGin(c, codeInvalidID)
			return
		}
		locationID = &parsed
	}

	items, err := h.objects.Search(
		c.Request.Context(), c.Query("q"), splitTags(c.Query("tags")), locationID, limit,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSearchItems(items))
}

// Fuzzy handles GET /objects/fuzzy.
func (h *ObjectHandler) Fuzzy(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	items, err := h.objects.FuzzySearch(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFuzzyItems(items))
}

// pathUUID parses the :id path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional string id from a request body.
func optionalUUID(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidID)
		return nil, false
	}
	return &id, true
}

// queryLimit parses the optional limit query parameter, writing a 400 on
// failure. A missing limit yields zero; use cases apply the default.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		httputil.BadRequestCodeGin(c, codeInvalidLimit)
		return 0, false
	}
	return limit, true
}

// splitTags parses the comma-separated tags query parameter.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tags = append(tags, part)
	}
	return tags
}
