package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sahanw/restopos/config"
	"github.com/sahanw/restopos/internal/bus"
	"github.com/sahanw/restopos/internal/feed"
	"github.com/sahanw/restopos/internal/handler"
	"github.com/sahanw/restopos/internal/ledger"
	menurepo "github.com/sahanw/restopos/internal/menu/repository"
	menuuc "github.com/sahanw/restopos/internal/menu/usecase"
	orderrepo "github.com/sahanw/restopos/internal/order/repository"
	orderuc "github.com/sahanw/restopos/internal/order/usecase"
	"github.com/sahanw/restopos/internal/receipt"
	"github.com/sahanw/restopos/internal/refund"
	"github.com/sahanw/restopos/internal/settings"
	settingsrepo "github.com/sahanw/restopos/internal/settings/repository"
	"github.com/sahanw/restopos/internal/store"
	"github.com/sahanw/restopos/internal/user"
)

// listenAddr accepts the port with or without a leading colon, since the
// env default carries one.
func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the POS synchronization server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.LoadEnv()

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewPostgres(&cfg.Postgres)
	if err != nil {
		logger.Error("could not connect to database", zap.Error(err))
		return err
	}
	defer db.Close()
	logger.Info("connected to postgres", zap.String("db", cfg.Postgres.DBName))

	if err := store.EnsureSchema(ctx, db); err != nil {
		logger.Error("schema migration failed", zap.Error(err))
		return err
	}

	redisClient, err := store.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Error("could not connect to redis", zap.Error(err))
		return err
	}
	defer redisClient.Close()
	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	notifier := store.NewRedisNotifier(redisClient, logger)
	b := bus.New()
	led := ledger.New(cfg.Local.LedgerPath, logger)

	orderUC := orderuc.NewOrderUseCase(orderrepo.NewPGRepository(db), notifier, led, b, logger)
	menuUC := menuuc.NewMenuUseCase(menurepo.NewPGRepository(db), notifier, b, logger)
	settingsSvc := settings.NewService(settingsrepo.NewPGRepository(db), cfg.Local.MirrorDir, logger)
	userSvc := user.NewService(settingsSvc, b, logger)

	printer := receipt.NewTextPrinter(os.Stdout, settingsSvc.Restaurant(ctx), settingsSvc.Receipt(ctx))
	refundProc := refund.NewProcessor(orderUC, printer, logger)

	// Feeds turn remote change notifications into local re-fetches,
	// degrading to polling when the subscription cannot be trusted.
	ordersFeed := feed.New(
		feed.OrdersConfig(cfg.Feed.AckTimeout, cfg.Feed.OrdersPoll, cfg.Feed.SettleDelay),
		notifier, b,
		func(ctx context.Context) error {
			b.Publish(bus.OrdersUpdated, orderUC.GetAll(ctx))
			return nil
		},
		logger,
	)
	menuFeed := feed.New(
		feed.MenuConfig(cfg.Feed.AckTimeout, cfg.Feed.MenuPoll),
		notifier, b,
		func(ctx context.Context) error {
			items, err := menuUC.GetAll(ctx, true)
			if err != nil {
				return err
			}
			b.Publish(bus.DashboardUpdate, items)
			return nil
		},
		logger,
	)
	ordersFeed.Start()
	menuFeed.Start()
	defer ordersFeed.Close()
	defer menuFeed.Close()

	router := handler.NewRouter(cfg, handler.Handlers{
		Auth:     handler.NewAuthHandler(userSvc, cfg.JWT),
		Menu:     handler.NewMenuHandler(menuUC),
		Orders:   handler.NewOrdersHandler(orderUC, refundProc, settingsSvc),
		Settings: handler.NewSettingsHandler(settingsSvc),
	})

	srv := &http.Server{
		Addr:    listenAddr(cfg.Server.HTTPPort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
