package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/internhub/config"
	"github.com/campushq/internhub/internal/adapters/devauth"
	"github.com/campushq/internhub/internal/adapters/oidc"
	redisadapter "github.com/campushq/internhub/internal/adapters/redis"
	"github.com/campushq/internhub/internal/ports"
	"github.com/campushq/internhub/internal/service"
)

// AuthDeps contains dependencies for building the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	// Directory resolves authenticated identities to campus profiles.
	Directory ports.UserDirectory
	Logger    *slog.Logger
}

// BuildAuthService creates the auth service for the configured mode.
// Every operation the application exposes sits behind the session guard,
// so a misconfigured identity backend is a startup error.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	if deps.RedisClient == nil {
		return nil, errors.New("auth service requires a redis client")
	}
	if deps.Directory == nil {
		return nil, errors.New("auth service requires a user directory")
	}

	provider, err := buildAuthProvider(deps.Auth)
	if err != nil {
		return nil, err
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(deps.RedisClient, deps.Auth.Session.KeyPrefix)
	events := redisadapter.NewSessionEvents(deps.RedisClient, deps.Logger)

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:            provider,
		Sessions:            sessionStore,
		Events:              events,
		Directory:           deps.Directory,
		AllowedEmailDomains: deps.Auth.AllowedEmailDomains,
		Logger:              deps.Logger,
	}), nil
}

//nolint:ireturn // provider selection is the point of this function.
func buildAuthProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.DevAuth.UserID,
			Email:  cfg.DevAuth.Email,
			Name:   cfg.DevAuth.Name,
			// session duration defaults inside provider
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}
