package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"EvalsDashboard/internal/config"
	"EvalsDashboard/internal/infrastructure/orders"
	"EvalsDashboard/internal/infrastructure/source"
	"EvalsDashboard/internal/infrastructure/trigger"
	"EvalsDashboard/internal/logging"
	"EvalsDashboard/internal/poller"
	"EvalsDashboard/internal/ports"
	"EvalsDashboard/internal/revenue"
	"EvalsDashboard/internal/server"
	"EvalsDashboard/internal/syncer"
)

// Application wires configs to the sync/poll subsystem and the HTTP API.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	syncSvc *syncer.Service
	poll    *poller.Poller
	calc    *revenue.Calculator
	orders  ports.OrderSource
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	var submissionSrc ports.SubmissionSource
	if cfg.Sources.OriginToken != "" && cfg.Sources.OriginCSVURL != "" {
		submissionSrc = source.NewOriginSource(cfg.Sources.OriginCSVURL, cfg.Sources.OriginToken, nil)
		baseLogger.Info("submission source: authenticated origin")
	} else {
		submissionSrc = source.NewMirrorSource(cfg.Sources.MirrorCSVURL, nil)
		baseLogger.Info("submission source: public mirror")
	}

	syncSvc := syncer.NewService(submissionSrc, syncer.NewStore(), baseLogger.With("component", "syncer"))

	var syncTrigger ports.SyncTrigger
	if cfg.Sources.OriginToken != "" && cfg.Sources.TriggerURL != "" {
		syncTrigger = trigger.NewWorkflowDispatch(cfg.Sources.TriggerURL, cfg.Sources.OriginToken, cfg.Sources.TriggerRef, nil)
	} else {
		syncTrigger = trigger.NewConsoleTrigger(cfg.Sources.ConsoleURL, baseLogger.With("component", "trigger"))
	}

	defaults := poller.DefaultIntervals()
	intervals := poller.Intervals{
		Normal:      cfg.Polling.Duration(cfg.Polling.NormalInterval, defaults.Normal),
		Fast:        cfg.Polling.Duration(cfg.Polling.FastInterval, defaults.Fast),
		FastWindow:  cfg.Polling.Duration(cfg.Polling.FastWindow, defaults.FastWindow),
		DataRefresh: cfg.Polling.Duration(cfg.Polling.DataRefresh, defaults.DataRefresh),
	}

	statusProbe := source.NewStatusProbe(cfg.Sources.StatusURL, nil)
	poll := poller.New(statusProbe, syncTrigger, syncSvc, intervals, baseLogger.With("component", "poller"))

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		syncSvc: syncSvc,
		poll:    poll,
		calc:    revenue.NewCalculator(cfg.Revenue.Anchor(), cfg.Revenue.PricePerProblem),
		orders:  orders.NewFileSource(cfg.Orders.Path, baseLogger.With("component", "orders")),
	}
}

// Run starts polling and serves the API until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	orderList, err := a.orders.Load(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	srv := server.New(server.Deps{
		Sync:       a.syncSvc,
		Poller:     a.poll,
		Revenue:    a.calc,
		Orders:     orderList,
		Password:   a.cfg.Auth.Password,
		JWTSecret:  a.cfg.Auth.JWTSecret,
		SessionTTL: time.Duration(a.cfg.Auth.SessionTTLDays) * 24 * time.Hour,
		Logger:     a.logger.With("component", "server"),
	})

	if err := a.poll.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}
	defer func() {
		_ = a.poll.Stop(context.Background())
	}()

	httpServer := &http.Server{
		Addr:    ":" + a.cfg.Server.Port,
		Handler: srv.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	a.logger.Info("server started", "port", a.cfg.Server.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
