package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kaizen-backend-go/internal/config"
	"kaizen-backend-go/internal/db"
	httpapi "kaizen-backend-go/internal/http"
	"kaizen-backend-go/internal/logging"
	"kaizen-backend-go/internal/migrations"
	"kaizen-backend-go/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	cleanupLogs, err := logging.Setup(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		log.Printf("logger setup failed: %v", err)
	} else {
		defer cleanupLogs()
	}

	database, err := db.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer database.Close()
	if err := migrations.Apply(database, db.Dialect(cfg.DatabaseDriver)); err != nil {
		log.Fatalf("migrations: %v", err)
	}
	if cfg.SeedReferenceData {
		seeded, err := services.SeedReferenceData(context.Background(), database)
		if err != nil {
			log.Fatalf("seed reference data: %v", err)
		}
		if seeded {
			log.Printf("seeded default factories and departments")
		}
	}

	server := httpapi.NewServer(database, cfg)
	if err := server.Uploads.EnsureDir(); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (driver %s)", addr, cfg.DatabaseDriver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
	log.Printf("shutdown complete")
}
