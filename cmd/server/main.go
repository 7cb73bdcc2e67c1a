package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planora/planora/modules"
	"github.com/planora/planora/pkg/application"
	"github.com/planora/planora/pkg/authz"
	"github.com/planora/planora/pkg/configuration"
	"github.com/planora/planora/pkg/eventbus"
	"github.com/planora/planora/pkg/metrics"
	"github.com/planora/planora/pkg/middleware"
	"github.com/planora/planora/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	authzService, err := authz.NewService(authz.Config{
		ModelPath:  conf.Authz.ModelPath,
		PolicyPath: conf.Authz.PolicyPath,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("failed to load access policy: %v", err)
	}
	authz.Setup(authzService)

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	migrationCtx, migrationCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrationCancel()
	if err := app.Migrations().Run(migrationCtx); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	app.RegisterMiddleware(
		middleware.WithLogger(logger),
		metrics.RequestMetrics(),
		middleware.WithPool(pool),
		middleware.Authenticate(),
		middleware.RequireTenant(),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance := server.NewHTTPServer(app)
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
