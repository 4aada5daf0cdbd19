package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akshay1332/naves-luxury-store-sub000/internal/config"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/gateway"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/metrics"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/notification"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/persistence/mysql"
	"github.com/akshay1332/naves-luxury-store-sub000/internal/infra/security"
	apihttp "github.com/akshay1332/naves-luxury-store-sub000/internal/interface/http"
	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
	orderuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/order"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Error("opening mysql", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancelPing()
		logger.Error("pinging mysql", "error", err)
		os.Exit(1)
	}
	cancelPing()

	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}

	notifier := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.NotificationTopic)
	defer notifier.Close()

	hub := gateway.NewConfirmationHub()
	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewaySecret, nil)
	gatewayAdapter := gateway.NewAdapter(gatewayClient, hub)

	m := metrics.NewCheckout(prometheus.DefaultRegisterer)

	cartRepo := mysql.NewCartRepository(db)
	productRepo := mysql.NewProductRepository(db)
	couponRepo := mysql.NewCouponRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	reconciliationRepo := mysql.NewReconciliationRepository(db)
	gatewayAdapter.FlagOrphans(reconciliationRepo, logger)

	checkoutSvc := checkoutuc.NewService(
		cartRepo, productRepo, couponRepo, orderRepo,
		gatewayAdapter, reconciliationRepo, notifier,
		checkoutuc.Config{
			DeliveryRule: cfg.DeliveryRule,
			Currency:     cfg.Currency,
		},
		logger, m,
	)
	orderSvc := orderuc.NewService(orderRepo, notifier, logger)

	api := apihttp.NewAPI(apihttp.Dependencies{
		CheckoutService: checkoutSvc,
		OrderService:    orderSvc,
		ConfirmationHub: hub,
		TokenService:    security.NewJWTService(cfg.JWTSecret),
	})

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: api.Router(),
		// The checkout route suspends until the payment widget resolves,
		// so write timeouts have to outlast a user reading the widget.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func runMigrations(db *sql.DB, path string) error {
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "mysql", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
