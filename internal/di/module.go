package di

import (
	"go.uber.org/fx"

	"github.com/caom/ecommerce/internal/app"
	"github.com/caom/ecommerce/internal/config"
	"github.com/caom/ecommerce/internal/logger"
	"github.com/caom/ecommerce/internal/pkg/auth"
	"github.com/caom/ecommerce/internal/server/http/handlers"
	"github.com/caom/ecommerce/internal/server/http/router"
	"github.com/caom/ecommerce/internal/stock"
	"github.com/caom/ecommerce/internal/storage/postgres"
	"github.com/caom/ecommerce/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stock.Module,
		usecase.Module,
		fx.Provide(
			func(l *stock.Ledger) usecase.StockLedger { return l },
			func(f *app.CommerceFacade) handlers.CommerceFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
