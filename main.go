package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EcoScan-Backend/cmd/config"
	migration "EcoScan-Backend/cmd/database/migrate"
	"EcoScan-Backend/internal/utils"
	"EcoScan-Backend/internal/utils/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := utils.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("connecting database", "error", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatal("migrating database", "error", err)
	}
	if *migrateOnly {
		log.Info("migration completed")
		return
	}

	rdb, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		log.Fatal("connecting redis", "error", err)
	}
	defer rdb.Close()

	app, err := config.NewApp(ctx, cfg, db, rdb, log)
	if err != nil {
		log.Fatal("building app", "error", err)
	}
	defer app.AccessLog.Close()

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
	if err := app.Fiber.Listen(":" + cfg.AppPort); err != nil {
		log.Error("server stopped", "error", err)
	}
}
