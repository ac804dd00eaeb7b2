package cli

import (
	"context"
	stderrors "errors"

	"hirelink/internal/api"
	"hirelink/internal/common"
	"hirelink/internal/config"
	"hirelink/internal/errors"
	"hirelink/internal/gateway"
	"hirelink/internal/guard"
	"hirelink/internal/lifecycle"
	"hirelink/internal/navigation"
	"hirelink/internal/observability"
	"hirelink/internal/screens"
	"hirelink/internal/session"
	"hirelink/internal/storage"

	"github.com/spf13/cobra"
)

// runtime is everything one invocation needs to run screens.
type runtime struct {
	cfg    *config.Config
	logger *errors.Logger
	obs    *observability.ObservabilityManager
	db     *storage.DB
	store  *session.Store
	app    *screens.App
	output *common.OutputHandler
	outCfg common.CommandConfig
}

func openRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	obs, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version))
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to initialize observability", err)
	}

	db, err := storage.Open(ctx, cfg.Session.StorePath)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, errors.NewIOError(errors.ErrCodeStoreFailed, "Cannot open the session store", err).
			WithContext("path", cfg.Session.StorePath)
	}
	store := session.FromDB(db, session.Options{
		CookieName: cfg.Session.CookieName,
		ProfileKey: cfg.Session.ProfileKey,
		Logger:     logger,
	})

	gw, err := gateway.FromConfig(cfg, store, obs, logger)
	if err != nil {
		_ = db.Close()
		_ = obs.Shutdown(ctx)
		return nil, err
	}
	client := api.New(gw)

	nav := navigation.New(ctx, logger)
	lc := lifecycle.New(ctx, client, store, lifecycle.Options{MaxAge: cfg.Session.CredentialMaxAge, Logger: logger})

	app := screens.New(screens.Deps{
		Navigator:     nav,
		Guard:         guard.New(store, obs.GetMetrics(), logger),
		Lifecycle:     lc,
		Session:       store,
		API:           client,
		Files:         common.NewFileProcessor(logger),
		Breaker:       gw.Breaker(),
		Logger:        logger,
		RedirectDelay: cfg.App.RedirectDelay,
		MaxUploadSize: cfg.App.MaxUploadSize,
		DownloadDir:   cfg.App.DownloadDir,
	})

	return &runtime{
		cfg:    cfg,
		logger: logger,
		obs:    obs,
		db:     db,
		store:  store,
		app:    app,
		output: common.NewOutputHandlerWithWriter(cmd.OutOrStdout(), logger),
		outCfg: getOutputConfigFromContext(ctx),
	}, nil
}

// Close flushes telemetry and closes the session store.
func (rt *runtime) Close(ctx context.Context) {
	if err := rt.obs.Shutdown(ctx); err != nil {
		rt.logger.LogError(err, "Failed to shut down observability")
	}
	if err := rt.db.Close(); err != nil {
		rt.logger.LogError(err, "Failed to close session store")
	}
}

// withRuntime runs fn with a runtime that is closed afterwards.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *runtime) error) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close(context.WithoutCancel(ctx))
	return fn(ctx, rt)
}

// show runs one screen and prints what it returns.
func show[Output any](ctx context.Context, rt *runtime, name string, screen common.ScreenFunc[Output]) error {
	err := common.RunScreen(ctx, rt.logger, rt.output, rt.outCfg, screen, func(cfg common.CommandConfig) {
		rt.logger.Debug("Opening screen", "screen", name, "route", rt.app.Navigator().Current(), "output_format", cfg.OutputFormat)
	})
	if err != nil {
		var redirect *screens.RedirectError
		if stderrors.As(err, &redirect) {
			rt.logger.Info("Screen redirected", "screen", name, "from", redirect.From, "to", redirect.To)
		}
		return err
	}
	return nil
}

// runScreen is show inside a fresh runtime.
func runScreen[Output any](cmd *cobra.Command, name string, screen func(ctx context.Context, app *screens.App) (Output, error)) error {
	return withRuntime(cmd, func(ctx context.Context, rt *runtime) error {
		return show(ctx, rt, name, func(ctx context.Context) (Output, error) {
			return screen(ctx, rt.app)
		})
	})
}
