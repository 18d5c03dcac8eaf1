package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/bazaar/internal/adapter/payments"
	"github.com/polkiloo/bazaar/internal/app"
	"github.com/polkiloo/bazaar/internal/config"
	"github.com/polkiloo/bazaar/internal/logger"
	"github.com/polkiloo/bazaar/internal/pkg/auth"
	"github.com/polkiloo/bazaar/internal/server/http/handlers"
	"github.com/polkiloo/bazaar/internal/server/http/router"
	"github.com/polkiloo/bazaar/internal/storage/postgres"
	"github.com/polkiloo/bazaar/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		payments.Module,
		usecase.Module,
		fx.Provide(func(p payments.Provider) usecase.PaymentProvider { return p }),
		fx.Provide(func(f *app.MarketFacade) handlers.MarketFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
