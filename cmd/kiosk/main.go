// Command kiosk runs beside a classroom RFID reader. It accepts card reads
// over HTTP or from a keyboard-wedge reader on stdin, journals them, and
// forwards each one to the attendance backend.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rfidattend/internal/apiclient"
	"rfidattend/internal/config"
	"rfidattend/internal/kiosk"
	"rfidattend/internal/queue"
	"rfidattend/internal/store"
)

func main() {
	readStdin := flag.Bool("stdin", false, "read card UIDs from standard input, one per line")
	flag.Parse()

	cfg := config.Load()
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, *readStdin); err != nil {
		log.Fatalf("kiosk failed: %v", err)
	}
}

func run(cfg config.App, readStdin bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]kiosk.HealthCheck{}

	var journal kiosk.Journal
	if cfg.DatabaseURL != "" {
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := kiosk.NewRepository(db.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		journal = repo
		checks["db"] = db.Healthy
	} else {
		log.Println("DATABASE_URL not set, journaling taps in memory")
		journal = kiosk.NewMemoryJournal()
	}

	var q queue.Queue
	if cfg.QueueBackend == "redis" {
		redisClient := store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
		checks["redis"] = redisClient.Healthy
		if cfg.DatabaseURL == "" {
			log.Println("warning: redis queue with an in-memory journal; a separate worker cannot see these taps")
		}
	} else {
		q = queue.NewInMemory(64)
	}

	svc := kiosk.NewService(journal, q, cfg.TapDedupWindow)
	if err := svc.RegisterDevice(ctx, cfg.DeviceID); err != nil {
		return err
	}

	if cfg.Forward {
		api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
		api.Section = cfg.KioskSection
		messages, err := q.Consume(ctx)
		if err != nil {
			return err
		}
		go kiosk.NewForwarder(journal, api).Run(ctx, messages)
		log.Printf("forwarding taps to %s", cfg.APIBaseURL)
	}

	if readStdin {
		go func() {
			if err := kiosk.ReadLines(ctx, os.Stdin, cfg.DeviceID, svc); err != nil {
				log.Printf("stdin reader stopped: %v", err)
			}
		}()
	}

	router := kiosk.NewRouter(svc, kiosk.ServerConfig{
		SigningKey:      cfg.JWTSigningKey,
		Issuer:          cfg.JWTIssuer,
		EnrollKey:       cfg.EnrollKey,
		AccessTTL:       cfg.AccessTTL,
		RefreshTTL:      cfg.RefreshTTL,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}, checks)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("kiosk %s listening on :%s", cfg.DeviceID, cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	log.Println("shutting down kiosk...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}
	log.Println("kiosk exited")
	return nil
}
