package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/internhub/config"
	"github.com/campushq/internhub/internal/auth"
	"github.com/campushq/internhub/internal/data"
	"github.com/campushq/internhub/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Reports  *service.ReportService
	NOC      *service.NOCService
	// Registry holds per-session auth state for the access guard.
	Registry *auth.Registry
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("service deps and config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	profiles := service.NewProfileService(data.NewUserProfileRepo(deps.DB))
	reports := service.NewReportService(data.NewWeeklyReportRepo(deps.DB))
	noc := service.NewNOCService(data.NewNOCRepo(deps.DB))

	authSvc, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Directory:   profiles,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	registry := auth.NewRegistry(auth.RegistryOptions{
		Client: authSvc,
		Logger: logger,
	})

	return ServiceContainer{
		Auth:     authSvc,
		Profiles: profiles,
		Reports:  reports,
		NOC:      noc,
		Registry: registry,
	}, nil
}
