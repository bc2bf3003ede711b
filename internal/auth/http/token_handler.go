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

// TokenHandler handles POST /auth/token: the client_credentials grant for
// machine principals.
type TokenHandler struct {
	clientAuth   authUseCase.ClientAuthenticator
	tokenService authService.TokenService
	ttlSeconds   int64
	logger       *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(
	clientAuth authUseCase.ClientAuthenticator,
	tokenService authService.TokenService,
	ttlSeconds int64,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		clientAuth:   clientAuth,
		tokenService: tokenService,
		ttlSeconds:   ttlSeconds,
		logger:       logger,
	}
}

// Handle exchanges client credentials for an app token. Credentials are
// accepted as HTTP Basic auth, a JSON body, or a form body; grant_type must
// always be "client_credentials". The minted subject is "app:<clientId>" so a
// claims consumer can tell machine principals from human ones by prefix as
// well as by token_type.
func (h *TokenHandler) Handle(c *gin.Context) {
	var req dto.TokenRequest
	if c.ContentType() == "application/json" {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.BadRequestCodeGin(c, authDomain.CodeInvalidJSON)
			return
		}
	} else {
		// Form bind errors are not fatal: Basic auth may carry the
		// credentials with grant_type in the query string.
		_ = c.ShouldBind(&req)
		if req.GrantType == "" {
			req.GrantType = c.Query("grant_type")
		}
	}

	if clientID, secret, ok := c.Request.BasicAuth(); ok {
		req.ClientID = clientID
		req.ClientSecret = secret
	}

	if req.GrantType != "client_credentials" {
		httputil.BadRequestCodeGin(c, authDomain.CodeUnsupportedGrantType)
		return
	}

	if strings.TrimSpace(req.ClientID) == "" || req.ClientSecret == "" {
		httputil.BadRequestCodeGin(c, authDomain.CodeMissingCredentials)
		return
	}

	result := h.clientAuth.Authenticate(c.Request.Context(), req.ClientID, []byte(req.ClientSecret))
	if !result.OK {
		writeAuthFailure(c, result.Code, h.logger)
		return
	}

	token, err := h.tokenService.Mint(
		"app:"+result.Principal, result.Roles, authDomain.TokenTypeApp, h.ttlSeconds,
	)
	if err != nil {
		httputil.HandleErrorGin(c, apperrors.Wrap(err, "failed to mint app token"), h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenResponse(token, h.ttlSeconds))
}
