// Command console is the teacher's terminal client for the attendance
// backend: login, roster management, schedules, reports, and the seat plan.
package main

import (
	"log"
	"os"
	"time"

	"rfidattend/internal/apiclient"
	"rfidattend/internal/config"
	"rfidattend/internal/session"
	"rfidattend/internal/store"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stderr, "CONSOLE : ", log.LstdFlags)

	cfg := config.Load()

	var sessionStore session.Store
	switch cfg.SessionBackend {
	case "redis":
		rdb := store.NewRedis(cfg.RedisAddr)
		defer rdb.Close()
		sessionStore = session.NewRedisStore(rdb.Client, cfg.SessionKey)
	default:
		sessionStore = session.NewFileStore(cfg.SessionPath)
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	api.Section = cfg.KioskSection

	cli := commandLine{
		api:      api,
		sessions: session.NewManager(sessionStore),
		out:      os.Stdout,
		today:    func() string { return time.Now().Format(time.DateOnly) },
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s", err)
		}
		os.Exit(1)
	}
}
