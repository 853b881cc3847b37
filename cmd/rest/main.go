package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/bootstrap"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/config"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/server"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/internal/tracer"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.Otel.Enabled, cfg.Otel.Endpoint)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go func() {
		if err := container.NotificationService.Start(ctx); err != nil {
			log.Printf("Background Notification Worker Error: %v", err)
		}
	}()
	go container.WebSocketHub.Run(ctx)
	go container.IntakeService.RunSweeper(ctx, cfg.Intake.SweepInterval)

	// 5. Initialize Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
