package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/campus-cli/internal/adapters/httpapi"
	dashboardrender "github.com/bnema/campus-cli/internal/adapters/render/dashboard"
	tomlrepo "github.com/bnema/campus-cli/internal/adapters/repo/toml"
	"github.com/bnema/campus-cli/internal/adapters/secrets"
	"github.com/bnema/campus-cli/internal/application"
	"github.com/bnema/campus-cli/internal/config"
	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"github.com/bnema/campus-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type app struct {
	cfg        config.Config
	logger     *log.Logger
	backend    *httpapi.Client
	api        *application.API
	auth       *application.AuthService
	state      ports.StateStore
	dashboards *application.DashboardLoader

	renderDashboard   func(application.Dashboard) (string, error)
	renderInteractive func(context.Context, *application.TenantSession, *application.ScopedView[application.Dashboard], io.Reader, io.Writer) error
}

// lazyWriter resolves its target on every write so logs follow the command's stderr.
type lazyWriter func() io.Writer

func (w lazyWriter) Write(p []byte) (int, error) {
	return w().Write(p)
}

func wireApp(stderr func() io.Writer) (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := log.New(lazyWriter(stderr), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}
	log.ResetDefault(logger)

	state, err := tomlrepo.NewStateStore(v)
	if err != nil {
		return nil, fmt.Errorf("wire state store: %w", err)
	}

	secretStore, err := newSecretStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	auth := application.NewAuthService(secretStore, state, ports.SystemClock{}, logger)
	backend := httpapi.NewClient(httpapi.Options{
		Origin:       cfg.Origin,
		PageOrigin:   cfg.PageOrigin,
		Token:        auth.Token,
		Logger:       logger,
		NewRequestID: uuid.NewString,
	})
	api := application.NewAPI(backend, auth, application.APIOptions{
		DefaultTenant: cfg.DefaultTenant,
		Logger:        logger,
	})

	return &app{
		cfg:               cfg,
		logger:            logger,
		backend:           backend,
		api:               api,
		auth:              auth,
		state:             state,
		dashboards:        application.NewDashboardLoader(api),
		renderDashboard:   dashboardrender.Render,
		renderInteractive: dashboardrender.RunInteractive,
	}, nil
}

func newSecretStore(cfg config.Config, logger *log.Logger) (ports.SecretStore, error) {
	if cfg.SecretsStore == config.SecretsStoreFile {
		return secrets.NewFileStore(cfg.SecretsDir), nil
	}
	return secrets.NewPassFirstWithFileFallback(cfg.SecretsDir, logger)
}

// openSession loads the tenant list. A backend failure leaves the session on the built-in catalog.
func (a *app) openSession(ctx context.Context) *application.TenantSession {
	return application.OpenTenantSession(ctx, a.api.TenantSource(), a.state, a.logger)
}

// selectedTenant is the tenant a command acts on: the flag value, then the tenant the
// session resolved from the persisted selection and the live tenant list. It is empty
// while the session is still loading.
func (a *app) selectedTenant(ctx context.Context, flag string) domain.TenantID {
	if id := domain.TenantID(flag); id.Valid() {
		return id
	}

	snapshot := a.openSession(ctx).Snapshot()
	if snapshot.IsLoading() || !snapshot.HasCurrent {
		return ""
	}
	return snapshot.Current.ID
}
