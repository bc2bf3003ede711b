package http

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	"github.com/kiwistore/kiwi/internal/auth/http/dto"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/httputil"
)

// bootstrapTokenHeader carries the shared secret that lets the very first
// user be created before any admin exists.
const bootstrapTokenHeader = "x-bootstrap-token"

// adminRole gates the provisioning endpoints once a user base exists.
const adminRole = "ADMIN"

// CreateUserHandler handles POST /admin/users.
//
// The route is registered public so the gate never verifies it; this handler
// applies its own two-phase policy instead. While no user exists, creation is
// allowed only with the configured bootstrap token. Once any user exists the
// bootstrap token stops working and an admin user token is required. With
// provisioning disabled the endpoint answers 404 to conceal its existence.
type CreateUserHandler struct {
	provisioner       authUseCase.UserProvisioner
	tokenService      authService.TokenService
	enabled           bool
	bootstrapToken    string
	roleCaseSensitive bool
	logger            *slog.Logger
}

// NewCreateUserHandler creates a new CreateUserHandler.
func NewCreateUserHandler(
	provisioner authUseCase.UserProvisioner,
	tokenService authService.TokenService,
	enabled bool,
	bootstrapToken string,
	roleCaseSensitive bool,
	logger *slog.Logger,
) *CreateUserHandler {
	return &CreateUserHandler{
		provisioner:       provisioner,
		tokenService:      tokenService,
		enabled:           enabled,
		bootstrapToken:    bootstrapToken,
		roleCaseSensitive: roleCaseSensitive,
		logger:            logger,
	}
}

// Handle provisions a new user after the bootstrap/admin policy check.
func (h *CreateUserHandler) Handle(c *gin.Context) {
	if !h.enabled {
		httputil.NotFoundGin(c)
		return
	}

	exists, err := h.provisioner.ExistsAnyUser(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to check user existence"), h.logger)
		return
	}

	if !h.authorize(c, exists) {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequestCodeGin(c, authDomain.CodeInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result := h.provisioner.CreateUser(
		c.Request.Context(), req.Username, []byte(req.Password), req.Roles,
	)
	if !result.OK {
		switch result.Code {
		case authDomain.CodeUsernameTaken:
			httputil.ConflictGin(c, result.Code)
		case authDomain.CodeInvalidInput:
			httputil.BadRequestCodeGin(c, result.Code)
		default:
			httputil.HandleErrorGin(c, apperrors.New("user provisioning failed"), h.logger)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreateUserResponse{
		UserID:   result.UserID.String(),
		Username: req.Username,
	})
}

// authorize enforces the bootstrap-or-admin policy. It writes the rejection
// response itself and reports whether the request may proceed.
func (h *CreateUserHandler) authorize(c *gin.Context, usersExist bool) bool {
	if !usersExist {
		header := c.GetHeader(bootstrapTokenHeader)
		if h.bootstrapToken == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(header), []byte(h.bootstrapToken)) != 1 {
			httputil.ForbiddenGin(c, authDomain.CodeInvalidBootstrapToken)
			return false
		}
		return true
	}

	// Users exist: the bootstrap token no longer grants anything.
	if c.GetHeader(bootstrapTokenHeader) != "" {
		httputil.ForbiddenGin(c, authDomain.CodeInvalidBootstrapToken)
		return false
	}

	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		httputil.UnauthorizedGin(c, authDomain.CodeMissingBearerToken)
		return false
	}

	result := h.tokenService.Verify(token, time.Now().Unix())
	if !result.OK {
		httputil.UnauthorizedGin(c, result.Code)
		return false
	}
	if !result.Context.IsUserToken() || !result.Context.HasRole(adminRole, h.roleCaseSensitive) {
		httputil.ForbiddenGin(c, authDomain.CodeMissingRole)
		return false
	}
	return true
}
