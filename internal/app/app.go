package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/config"
	"github.com/polkiloo/campusorder/internal/usecase"
	"github.com/polkiloo/campusorder/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewOrderingFacade,
		newProcessor,
		newScheduler,
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type processorParams struct {
	fx.In

	Sessions dining.Factory
	Orders   *usecase.OrderUseCase
	Config   *config.Config
	Logger   *slog.Logger
}

func newProcessor(p processorParams) *worker.Processor {
	poller := worker.NewStatusPoller(p.Config.PollInterval, p.Config.PollMaxAttempts, p.Logger)
	return worker.NewProcessor(
		sessionFactory{inner: p.Sessions},
		orderStore{orders: p.Orders},
		poller,
		p.Logger,
	)
}

type schedulerParams struct {
	fx.In

	Facade    *OrderingFacade
	Processor *worker.Processor
	Config    *config.Config
	Logger    *slog.Logger
}

func newScheduler(p schedulerParams) *worker.Scheduler {
	return worker.NewScheduler(p.Facade, p.Processor, p.Config.SchedulerInterval, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *worker.Scheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting campusorder", slog.String("addr", p.Server.Addr))
			p.Scheduler.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Scheduler.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("campusorder stopped")
			return nil
		},
	})
}
