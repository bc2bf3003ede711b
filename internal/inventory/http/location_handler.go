package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiwistore/kiwi/internal/httputil"
	"github.com/kiwistore/kiwi/internal/inventory/http/dto"
	inventoryUseCase "github.com/kiwistore/kiwi/internal/inventory/usecase"
)

// LocationHandler handles the /locations endpoints.
type LocationHandler struct {
	locations inventoryUseCase.LocationUseCase
	logger    *slog.Logger
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(
	locations inventoryUseCase.LocationUseCase,
	logger *slog.Logger,
) *LocationHandler {
	return &LocationHandler{
		locations: locations,
		logger:    logger,
	}
}

// Create handles POST /locations.
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, codeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	parentID, ok := optionalUUID(c, req.ParentID)
	if !ok {
		return
	}

	location, err := h.locations.CreateLocation(c.Request.Context(), req.Name, parentID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapLocation(location))
}

// Get handles GET /locations/:id.
func (h *LocationHandler) Get(c *gin.Context) {
	locationID, ok := pathUUID(c)
	if !ok {
		return
	}

	location, err := h.locations.GetLocation(c.Request.Context(), locationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLocation(location))
}
