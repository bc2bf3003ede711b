package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	"github.com/kiwistore/kiwi/internal/auth/http/dto"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
	"github.com/kiwistore/kiwi/internal/httputil"
)

// LoginHandler handles POST /auth/login: username + password in, user token out.
type LoginHandler struct {
	userAuth     authUseCase.UserAuthenticator
	tokenService authService.TokenService
	ttlSeconds   int64
	logger       *slog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	userAuth authUseCase.UserAuthenticator,
	tokenService authService.TokenService,
	ttlSeconds int64,
	logger *slog.Logger,
) *LoginHandler {
	return &LoginHandler{
		userAuth:     userAuth,
		tokenService: tokenService,
		ttlSeconds:   ttlSeconds,
		logger:       logger,
	}
}

// Handle authenticates a user. Credentials are accepted as HTTP Basic auth or
// a JSON body; Basic auth wins when both are present.
func (h *LoginHandler) Handle(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.BadRequestCodeGin(c, authDomain.CodeInvalidJSON)
			return
		}
		username = req.Username
		password = req.Password
	}

	if strings.TrimSpace(username) == "" || password == "" {
		httputil.BadRequestCodeGin(c, authDomain.CodeMissingCredentials)
		return
	}

	result := h.userAuth.Authenticate(c.Request.Context(), username, []byte(password))
	if !result.OK {
		writeAuthFailure(c, result.Code, h.logger)
		return
	}

	token, err := h.tokenService.Mint(
		result.Principal, result.Roles, authDomain.TokenTypeUser, h.ttlSeconds,
	)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to mint user token"), h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenResponse(token, h.ttlSeconds))
}

// writeAuthFailure maps a usecase rejection code to an HTTP response. Disabled
// principals get 403, infrastructure failures 500 with no detail, everything
// else 401 with the code verbatim.
func writeAuthFailure(c *gin.Context, code string, logger *slog.Logger) {
	switch code {
	case authDomain.CodeUserDisabled, authDomain.CodeClientDisabled:
		httputil.ForbiddenGin(c, code)
	case authDomain.CodeError, authDomain.CodeDBError:
		httputil.HandleErrorGin(c, apperrors.New("authentication backend failure"), logger)
	default:
		httputil.UnauthorizedGin(c, code)
	}
}
