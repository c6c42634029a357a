package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rfidattend/internal/apiclient"
	"rfidattend/internal/config"
	"rfidattend/internal/kiosk"
	"rfidattend/internal/queue"
	"rfidattend/internal/store"
)

// Worker drains the shared Redis tap queue and forwards each tap to the
// attendance backend, for kiosks started with KIOSK_FORWARD=false.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required: the worker reads taps from the shared journal")
	}
	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	repo := kiosk.NewRepository(db.Client)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis at %s not reachable, will keep retrying", cfg.RedisAddr)
	}
	q := queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	api.Section = cfg.KioskSection

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Printf("worker started, forwarding taps from %s to %s", cfg.QueueKey, cfg.APIBaseURL)
	kiosk.NewForwarder(repo, api).Run(ctx, messages)
	log.Println("worker stopped")
}
