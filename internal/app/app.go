package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/fx"

	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewMarketFacade,
		newHTTPServer,
		newPayoutScheduler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	handler := cors.Handler(cors.Options{
		AllowedOrigins:   p.Config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Encoding"},
		ExposedHeaders:   []string{"Authorization", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(p.Router)

	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: handler,
	}
}

type schedulerParams struct {
	fx.In

	Facade *MarketFacade
	Config *config.Config
	Logger *slog.Logger
}

func newPayoutScheduler(p schedulerParams) (*worker.PayoutScheduler, error) {
	return worker.NewPayoutScheduler(
		p.Facade,
		p.Config.Payout.GenerateSchedule,
		p.Config.Payout.DisburseSchedule,
		p.Config.Payout.Location,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *worker.PayoutScheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting bazaar", slog.String("addr", p.Server.Addr))
			if p.Config.Payout.SchedulerEnabled {
				p.Scheduler.Start(ctx)
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if p.Config.Payout.SchedulerEnabled {
				p.Scheduler.Stop()
			}

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("bazaar stopped")
			return nil
		},
	})
}
