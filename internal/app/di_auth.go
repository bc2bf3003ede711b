package app

import (
	"fmt"
	"net/http"
	"sync"

	authHTTP "github.com/kiwistore/kiwi/internal/auth/http"
	authRepository "github.com/kiwistore/kiwi/internal/auth/repository"
	authService "github.com/kiwistore/kiwi/internal/auth/service"
	authUseCase "github.com/kiwistore/kiwi/internal/auth/usecase"
)

// adminRole gates the admin provisioning endpoints.
const adminRole = "ADMIN"

// authComponents holds the lazily initialized auth dependencies.
type authComponents struct {
	hasher       authService.CredentialHasher
	tokenService authService.TokenService
	userRepo     authUseCase.UserRepository
	roleRepo     authUseCase.RoleRepository
	clientRepo   authUseCase.AppClientRepository
	userAuth     authUseCase.UserAuthenticator
	clientAuth   authUseCase.ClientAuthenticator
	provisioner  authUseCase.UserProvisioner
	gate         *authHTTP.Gate

	hasherInit       sync.Once
	tokenServiceInit sync.Once
	userRepoInit     sync.Once
	roleRepoInit     sync.Once
	clientRepoInit   sync.Once
	userAuthInit     sync.Once
	clientAuthInit   sync.Once
	provisionerInit  sync.Once
	gateInit         sync.Once
}

// Hasher returns the credential hasher.
func (c *Container) Hasher() (authService.CredentialHasher, error) {
	c.hasherInit.Do(func() {
		hasher, err := authService.NewPBKDF2Hasher(c.config.AuthDerivedKeyBytes)
		if err != nil {
			c.initErrors["hasher"] = fmt.Errorf("failed to create credential hasher: %w", err)
			return
		}
		c.hasher = hasher
	})
	if storedErr, exists := c.initErrors["hasher"]; exists {
		return nil, storedErr
	}
	return c.hasher, nil
}

// TokenService returns the token service. Creation validates the signing
// configuration, so a short secret aborts startup.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		tokenService, err := authService.NewTokenService(
			c.config.JWTIssuer,
			c.config.JWTAudience,
			c.config.JWTSecret,
		)
		if err != nil {
			c.initErrors["tokenService"] = fmt.Errorf("failed to create token service: %w", err)
			return
		}
		c.tokenService = tokenService
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// AuthUserRepository returns the user repository instance.
func (c *Container) AuthUserRepository() (authUseCase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["authUserRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}
		c.userRepo = authRepository.NewPostgreSQLUserRepository(db)
	})
	if storedErr, exists := c.initErrors["authUserRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// AuthRoleRepository returns the role repository instance.
func (c *Container) AuthRoleRepository() (authUseCase.RoleRepository, error) {
	c.roleRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["authRoleRepo"] = fmt.Errorf("failed to get database for role repository: %w", err)
			return
		}
		c.roleRepo = authRepository.NewPostgreSQLRoleRepository(db)
	})
	if storedErr, exists := c.initErrors["authRoleRepo"]; exists {
		return nil, storedErr
	}
	return c.roleRepo, nil
}

// AppClientRepository returns the app client repository instance.
func (c *Container) AppClientRepository() (authUseCase.AppClientRepository, error) {
	c.clientRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["appClientRepo"] = fmt.Errorf("failed to get database for app client repository: %w", err)
			return
		}
		c.clientRepo = authRepository.NewPostgreSQLAppClientRepository(db)
	})
	if storedErr, exists := c.initErrors["appClientRepo"]; exists {
		return nil, storedErr
	}
	return c.clientRepo, nil
}

// UserAuthenticator returns the user authenticator use case.
func (c *Container) UserAuthenticator() (authUseCase.UserAuthenticator, error) {
	c.userAuthInit.Do(func() {
		userRepo, err := c.AuthUserRepository()
		if err != nil {
			c.initErrors["userAuth"] = fmt.Errorf("failed to get user repository for user authenticator: %w", err)
			return
		}

		hasher, err := c.Hasher()
		if err != nil {
			c.initErrors["userAuth"] = fmt.Errorf("failed to get hasher for user authenticator: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["userAuth"] = fmt.Errorf("failed to get business metrics for user authenticator: %w", err)
			return
		}

		c.userAuth = authUseCase.NewUserAuthenticator(userRepo, hasher, c.Logger(), businessMetrics)
	})
	if storedErr, exists := c.initErrors["userAuth"]; exists {
		return nil, storedErr
	}
	return c.userAuth, nil
}

// ClientAuthenticator returns the client authenticator use case.
func (c *Container) ClientAuthenticator() (authUseCase.ClientAuthenticator, error) {
	c.clientAuthInit.Do(func() {
		clientRepo, err := c.AppClientRepository()
		if err != nil {
			c.initErrors["clientAuth"] = fmt.Errorf("failed to get client repository for client authenticator: %w", err)
			return
		}

		hasher, err := c.Hasher()
		if err != nil {
			c.initErrors["clientAuth"] = fmt.Errorf("failed to get hasher for client authenticator: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["clientAuth"] = fmt.Errorf("failed to get business metrics for client authenticator: %w", err)
			return
		}

		clientAuth, err := authUseCase.NewClientAuthenticator(
			clientRepo,
			hasher,
			c.config.AuthSaltBytes,
			c.config.AuthPBKDF2Iterations,
			c.Logger(),
			businessMetrics,
		)
		if err != nil {
			c.initErrors["clientAuth"] = fmt.Errorf("failed to create client authenticator: %w", err)
			return
		}
		c.clientAuth = clientAuth
	})
	if storedErr, exists := c.initErrors["clientAuth"]; exists {
		return nil, storedErr
	}
	return c.clientAuth, nil
}

// UserProvisioner returns the user provisioning use case.
func (c *Container) UserProvisioner() (authUseCase.UserProvisioner, error) {
	c.provisionerInit.Do(func() {
		userRepo, err := c.AuthUserRepository()
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to get user repository for user provisioner: %w", err)
			return
		}

		roleRepo, err := c.AuthRoleRepository()
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to get role repository for user provisioner: %w", err)
			return
		}

		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to get tx manager for user provisioner: %w", err)
			return
		}

		hasher, err := c.Hasher()
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to get hasher for user provisioner: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to get business metrics for user provisioner: %w", err)
			return
		}

		provisioner, err := authUseCase.NewUserProvisioner(
			userRepo,
			roleRepo,
			txManager,
			hasher,
			c.config.AuthSaltBytes,
			c.config.AuthPBKDF2Iterations,
			c.Logger(),
			businessMetrics,
		)
		if err != nil {
			c.initErrors["provisioner"] = fmt.Errorf("failed to create user provisioner: %w", err)
			return
		}
		c.provisioner = provisioner
	})
	if storedErr, exists := c.initErrors["provisioner"]; exists {
		return nil, storedErr
	}
	return c.provisioner, nil
}

// Gate returns the authorization gate with the production rule table.
func (c *Container) Gate() (*authHTTP.Gate, error) {
	c.gateInit.Do(func() {
		tokenService, err := c.TokenService()
		if err != nil {
			c.initErrors["gate"] = fmt.Errorf("failed to get token service for gate: %w", err)
			return
		}

		c.gate = authHTTP.NewGate(tokenService, c.Logger()).
			PublicPath(http.MethodGet, "/health").
			PublicPath(http.MethodGet, "/ready").
			PublicPath(http.MethodGet, "/hello").
			PublicPath(http.MethodPost, "/auth/login").
			PublicPath(http.MethodPost, "/auth/token").
			PublicPath(http.MethodPost, "/admin/users").
			ProtectedPrefix("/objects/*").
			ProtectedPrefix("/locations/*").
			ProtectedPrefix("/admin/app-clients")
	})
	if storedErr, exists := c.initErrors["gate"]; exists {
		return nil, storedErr
	}
	return c.gate, nil
}

// authHandlers builds the auth route handlers.
func (c *Container) authHandlers() (
	*authHTTP.LoginHandler,
	*authHTTP.TokenHandler,
	*authHTTP.CreateUserHandler,
	*authHTTP.CreateAppClientHandler,
	error,
) {
	userAuth, err := c.UserAuthenticator()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	clientAuth, err := c.ClientAuthenticator()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	provisioner, err := c.UserProvisioner()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger := c.Logger()

	loginHandler := authHTTP.NewLoginHandler(
		userAuth, tokenService, int64(c.config.JWTUserTokenTTL.Seconds()), logger,
	)
	tokenHandler := authHTTP.NewTokenHandler(
		clientAuth, tokenService, int64(c.config.JWTAppTokenTTL.Seconds()), logger,
	)
	userHandler := authHTTP.NewCreateUserHandler(
		provisioner,
		tokenService,
		c.config.EnableUserProvisioning,
		c.config.BootstrapToken,
		c.config.AuthRoleCaseSensitive,
		logger,
	)
	clientHandler := authHTTP.NewCreateAppClientHandler(clientAuth, logger)

	return loginHandler, tokenHandler, userHandler, clientHandler, nil
}
