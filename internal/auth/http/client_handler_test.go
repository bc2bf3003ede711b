package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
)

// clientRouter wires the handler behind the gate and the admin user-role
// middleware, matching the production route.
func clientRouter(
	t *testing.T,
	ts authService.TokenService,
	clientAuth *mockClientAuthenticator,
) *gin.Engine {
	t.Helper()

	gate := NewGate(ts, testLogger()).ProtectedPrefix("/admin/app-clients")
	handler := NewCreateAppClientHandler(clientAuth, testLogger())

	router := gin.New()
	router.Use(gate.Middleware())
	router.POST("/admin/app-clients", RequireUserRole("ADMIN", false), handler.Handle)
	return router
}

func TestCreateAppClientHandler(t *testing.T) {
	ts := testTokenService(t)
	appClientID := uuid.Must(uuid.NewV7())

	adminToken, err := ts.Mint("alice", []string{"ADMIN"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	withAdmin := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	validBody := `{"client_id":"svc-reporting","name":"Reporting","secret":"s3cret-value-16ch","roles":["reader"]}`

	t.Run("success", func(t *testing.T) {
		clientAuth := &mockClientAuthenticator{}
		clientAuth.On("CreateClient",
			mock.Anything, "svc-reporting", "Reporting", []byte("s3cret-value-16ch"), []string{"reader"},
		).Return(authDomain.CreateClientOK(appClientID, "svc-reporting", "Reporting", []string{"reader"}))

		router := clientRouter(t, ts, clientAuth)
		w := postJSON(router, "/admin/app-clients", validBody, withAdmin)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), appClientID.String())
		assert.Contains(t, w.Body.String(), `"client_id":"svc-reporting"`)
		clientAuth.AssertExpectations(t)
	})

	t.Run("requires a bearer token", func(t *testing.T) {
		clientAuth := &mockClientAuthenticator{}
		router := clientRouter(t, ts, clientAuth)

		w := postJSON(router, "/admin/app-clients", validBody, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), authDomain.CodeMissingBearerToken)
		clientAuth.AssertNotCalled(t, "CreateClient")
	})

	t.Run("requires the admin role", func(t *testing.T) {
		readerToken, err := ts.Mint("bob", []string{"reader"}, authDomain.TokenTypeUser, 3600)
		require.NoError(t, err)

		clientAuth := &mockClientAuthenticator{}
		router := clientRouter(t, ts, clientAuth)

		w := postJSON(router, "/admin/app-clients", validBody, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+readerToken)
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), authDomain.CodeMissingRole)
	})

	t.Run("rejects app tokens", func(t *testing.T) {
		appToken, err := ts.Mint("app:svc", []string{"ADMIN"}, authDomain.TokenTypeApp, 3600)
		require.NoError(t, err)

		clientAuth := &mockClientAuthenticator{}
		router := clientRouter(t, ts, clientAuth)

		w := postJSON(router, "/admin/app-clients", validBody, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+appToken)
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		clientAuth.AssertNotCalled(t, "CreateClient")
	})

	t.Run("duplicate client id maps to 409", func(t *testing.T) {
		clientAuth := &mockClientAuthenticator{}
		clientAuth.On("CreateClient", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(authDomain.CreateClientBad(authDomain.CodeClientIDTaken))

		router := clientRouter(t, ts, clientAuth)
		w := postJSON(router, "/admin/app-clients", validBody, withAdmin)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), authDomain.CodeClientIDTaken)
	})

	t.Run("validation failure", func(t *testing.T) {
		clientAuth := &mockClientAuthenticator{}
		router := clientRouter(t, ts, clientAuth)

		w := postJSON(router, "/admin/app-clients", `{"client_id":"svc","secret":"short"}`, withAdmin)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		clientAuth.AssertNotCalled(t, "CreateClient")
	})

	t.Run("invalid json", func(t *testing.T) {
		clientAuth := &mockClientAuthenticator{}
		router := clientRouter(t, ts, clientAuth)

		w := postJSON(router, "/admin/app-clients", `{"client_id":`, withAdmin)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), authDomain.CodeInvalidJSON)
	})
}
