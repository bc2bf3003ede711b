package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	"github.com/kiwistore/kiwi/internal/auth/http/dto"
	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/httputil"
)

// CreateAppClientHandler handles POST /admin/app-clients. The route sits
// behind the gate plus RequireUserRole(adminRole), so by the time Handle runs
// the caller is a verified human admin.
type CreateAppClientHandler struct {
	clientAuth authUseCase.ClientAuthenticator
	logger     *slog.Logger
}

// NewCreateAppClientHandler creates a new CreateAppClientHandler.
func NewCreateAppClientHandler(
	clientAuth authUseCase.ClientAuthenticator,
	logger *slog.Logger,
) *CreateAppClientHandler {
	return &CreateAppClientHandler{
		clientAuth: clientAuth,
		logger:     logger,
	}
}

// Handle provisions a new app client.
func (h *CreateAppClientHandler) Handle(c *gin.Context) {
	var req dto.CreateAppClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, authDomain.CodeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result := h.clientAuth.CreateClient(
		c.Request.Context(), req.ClientID, req.Name, []byte(req.Secret), req.Roles,
	)
	if !result.OK {
		switch result.Code {
		case authDomain.CodeClientIDTaken:
			httputil.ConflictGin(c, result.Code)
		case authDomain.CodeInvalidInput:
			httputil.BadRequestCodeGin(c, result.Code)
		default:
			httputil.HandleErrorGin(c, apperrors.New("client provisioning failed"), h.logger)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreateClientResult(result))
}
