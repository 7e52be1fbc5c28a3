package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/redbuilds/storefront/internal/cart"
	"github.com/redbuilds/storefront/internal/catalog"
	"github.com/redbuilds/storefront/internal/checkout"
	"github.com/redbuilds/storefront/internal/config"
	"github.com/redbuilds/storefront/internal/contact"
	"github.com/redbuilds/storefront/internal/httpapi"
	"github.com/redbuilds/storefront/internal/orders"
	"github.com/redbuilds/storefront/internal/store"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "RedBuilds storefront backend",
		Commands: []*cli.Command{
			serveCommand(),
			ordersCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront exited")
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func openStore(cfg config.Config) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.RunMigrations(); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return st, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the storefront HTTP server",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			engine := cart.NewEngine(st, log)
			engine.Load(c.Context)
			engine.Subscribe(func(itemCount int) {
				log.WithField("item_count", itemCount).Debug("cart changed")
			})

			var cache catalog.Cache
			if cfg.RedisAddr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				if err := client.Ping(c.Context).Err(); err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				defer client.Close()
				cache = catalog.NewRedisCache(client, cfg.CatalogCacheTTL)
				log.WithField("addr", cfg.RedisAddr).Info("using redis catalog cache")
			} else {
				cache = catalog.NewMemoryCache(cfg.CatalogCacheTTL)
			}

			fetcher := catalog.NewClient(cfg.CatalogBaseURL, cfg.RequestTimeout)
			catalogSvc := catalog.NewService(fetcher, cache, log)

			ordersLog := orders.NewLog(st, log)
			gateway := checkout.SimulatedGateway{Delay: cfg.PaymentDelay}
			sender := contact.NewClient(cfg.ContactEndpoint, cfg.RequestTimeout)

			router := httpapi.NewRouter(httpapi.RouterDeps{
				Products:       httpapi.NewProductHandler(catalogSvc, cfg.RequestTimeout),
				Cart:           httpapi.NewCartHandler(engine, catalogSvc, cfg.RequestTimeout),
				Checkout:       httpapi.NewCheckoutHandler(engine, ordersLog, gateway, log, cfg.RequestTimeout),
				Orders:         httpapi.NewOrdersHandler(ordersLog, cfg.RequestTimeout),
				Contact:        httpapi.NewContactHandler(sender, cfg.RequestTimeout),
				Log:            log,
				RequestTimeout: cfg.RequestTimeout,
			})

			srv := &http.Server{
				Addr:         ":" + cfg.HTTPPort,
				Handler:      router,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			go func() {
				log.WithField("port", cfg.HTTPPort).Info("storefront listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Fatal("server error")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("forced shutdown: %w", err)
			}

			log.Info("server exited")
			return nil
		},
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "print the persisted orders log",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := orders.NewLog(st, log).List(c.Context)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	}
}
