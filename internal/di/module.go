package di

import (
	"github.com/polkiloo/campusorder/internal/adapter/dining"
	"github.com/polkiloo/campusorder/internal/app"
	"github.com/polkiloo/campusorder/internal/config"
	"github.com/polkiloo/campusorder/internal/logger"
	"github.com/polkiloo/campusorder/internal/pkg/auth"
	"github.com/polkiloo/campusorder/internal/server/http/handlers"
	"github.com/polkiloo/campusorder/internal/server/http/router"
	"github.com/polkiloo/campusorder/internal/storage/postgres"
	"github.com/polkiloo/campusorder/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		dining.Module,
		usecase.Module,
		fx.Provide(func(facade *app.OrderingFacade) handlers.OrderingFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
