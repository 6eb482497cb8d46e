package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"stockledger/internal/cart"
	"stockledger/internal/commons"
	appconfig "stockledger/internal/config"
	"stockledger/internal/infrastructure/logger"
	"stockledger/internal/infrastructure/mysql"
	"stockledger/internal/infrastructure/rabbitmq"
	"stockledger/internal/inventory"
	"stockledger/internal/order"
	"stockledger/internal/server"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	broker, err := rabbitmq.Connect(cfg.Broker)
	if err != nil {
		zapLogger.Fatal("connecting to broker", zap.Error(err))
	}
	defer broker.Close()
	zapLogger.Info("broker connected", zap.String("exchange", cfg.Broker.Exchange))

	activityCtrl, recordUC := inventory.NewModule(db, cfg, zapLogger)
	cartCtrl := cart.NewModule(db, zapLogger)
	orderConsumer := order.NewModule(db, broker.Channel(), cfg, recordUC, zapLogger)

	router := server.NewRouter(activityCtrl, cartCtrl, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	go func() {
		if err := orderConsumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
			zapLogger.Fatal("order events consumer error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*appconfig.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return appconfig.Load()
}
