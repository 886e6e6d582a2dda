// Package app assembles configuration, storage, services, and handlers into
// the Telegram run options consumed by the core runner.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/whisperbot/core/bootstrap"
	coreconfig "github.com/m3rciful/whisperbot/core/config"
	coretelegram "github.com/m3rciful/whisperbot/core/telegram"
	"github.com/m3rciful/whisperbot/core/telegram/router"
	"github.com/m3rciful/whisperbot/core/telegram/state"
	"github.com/m3rciful/whisperbot/internal/config"
	"github.com/m3rciful/whisperbot/internal/handlers"
	"github.com/m3rciful/whisperbot/internal/service"
	"github.com/m3rciful/whisperbot/internal/storage"
)

// App owns the bot's long-lived components.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	sessions state.Manager
	handlers *handlers.Handlers
}

// New runs the bootstrap pipeline (logger, database, migrations) and wires
// the ledger and delivery workflow on top of it.
func New(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	users := service.NewUsers(storage.NewUserRepository(res.DB), cfg.Limits())
	sessions := state.NewMemoryManager()
	delivery := service.NewDelivery(users, sessions, service.CountPolicy(cfg.Delivery.CountPolicy))

	return &App{
		cfg:      cfg,
		db:       res.DB,
		sessions: sessions,
		handlers: handlers.New(users, delivery),
	}, nil
}

// CoreConfig satisfies the runner's ConfigCarrier contract.
func (a *App) CoreConfig() *coreconfig.Config {
	return a.cfg.CoreConfig()
}

// TelegramRunOptions builds the registry, routes, and middleware chain.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.sessions, reg, router.TextOptions{
		UnknownText:     a.handlers.UnknownText(),
		UnknownDocument: a.handlers.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: a.handlers.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
