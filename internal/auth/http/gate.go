package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	"github.com/kiwistore/kiwi/internal/httputil"
)

// PublicRule marks an exact (method, path pattern) pair as reachable without
// a token.
type PublicRule struct {
	Method  string
	Pattern string
}

// Gate classifies each request as public, protected, or unmatched, and
// verifies bearer tokens on protected requests.
//
// Requests matching neither a public rule nor a protected pattern pass
// through unauthenticated. This fail-open default mirrors the behavior the
// route table was built against; new routes must be added to the rule table
// explicitly.
type Gate struct {
	tokenService authService.TokenService
	publicRules  []PublicRule
	protected    []string
	logger       *slog.Logger
}

// NewGate creates a Gate with an empty rule table.
func NewGate(tokenService authService.TokenService, logger *slog.Logger) *Gate {
	return &Gate{
		tokenService: tokenService,
		logger:       logger,
	}
}

// PublicPath registers an exact (method, pattern) public rule.
func (g *Gate) PublicPath(method, pattern string) *Gate {
	g.publicRules = append(g.publicRules, PublicRule{Method: method, Pattern: pattern})
	return g
}

// ProtectedPrefix registers a path pattern whose matches require a bearer
// token, e.g. "/objects/*".
func (g *Gate) ProtectedPrefix(pattern string) *Gate {
	g.protected = append(g.protected, pattern)
	return g
}

// Middleware returns the gin middleware enforcing the rule table.
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.Request.URL.Path

		for _, rule := range g.publicRules {
			if rule.Method == method && authDomain.MatchPath(rule.Pattern, path) {
				c.Next()
				return
			}
		}

		if !g.isProtected(path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			g.logger.Debug("rejected protected request without bearer token",
				slog.String("method", method),
				slog.String("path", path),
			)
			httputil.UnauthorizedGin(c, authDomain.CodeMissingBearerToken)
			c.Abort()
			return
		}

		result := g.tokenService.Verify(token, time.Now().Unix())
		if !result.OK {
			g.logger.Debug("rejected protected request with invalid token",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("code", result.Code),
			)
			httputil.UnauthorizedGin(c, result.Code)
			c.Abort()
			return
		}

		ctx := WithAuthContext(c.Request.Context(), result.Context)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (g *Gate) isProtected(path string) bool {
	for _, pattern := range g.protected {
		if authDomain.MatchPath(pattern, path) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from an Authorization header, tolerating a
// case-insensitive scheme. Returns false on a missing or malformed header.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireRole returns middleware rejecting requests whose verified claims do
// not carry the role. Must run after the gate on a protected route.
func RequireRole(role string, caseSensitive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAuthContext(c.Request.Context())
		if !ok {
			httputil.UnauthorizedGin(c, authDomain.CodeMissingBearerToken)
			c.Abort()
			return
		}
		if !ac.HasRole(role, caseSensitive) {
			httputil.ForbiddenGin(c, authDomain.CodeMissingRole)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUserRole is RequireRole restricted to human-principal tokens: an app
// token is rejected even when it carries the role.
func RequireUserRole(role string, caseSensitive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAuthContext(c.Request.Context())
		if !ok {
			httputil.UnauthorizedGin(c, authDomain.CodeMissingBearerToken)
			c.Abort()
			return
		}
		if !ac.IsUserToken() || !ac.HasRole(role, caseSensitive) {
			httputil.ForbiddenGin(c, authDomain.CodeMissingRole)
			c.Abort()
			return
		}
		c.Next()
	}
}
