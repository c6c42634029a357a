package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env string

	// Backend REST API.
	APIBaseURL string
	APITimeout time.Duration

	// Session cache.
	SessionBackend string // file or redis
	SessionPath    string
	SessionKey     string

	RedisAddr   string
	DatabaseURL string

	// Kiosk.
	HTTPPort        string
	QueueBackend    string
	QueueKey        string
	DeviceID        string
	KioskSection    string
	EnrollKey       string
	TapDedupWindow  time.Duration
	Forward         bool
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RateLimitPerMin int
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file in the working directory is read first when
// present; real environment variables win over it.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		APIBaseURL:      getEnv("API_BASE_URL", "https://attendance-monitoring-system-65w1.onrender.com"),
		APITimeout:      durationEnv("API_TIMEOUT", 30*time.Second),
		SessionBackend:  getEnv("SESSION_BACKEND", "file"),
		SessionPath:     getEnv("SESSION_PATH", defaultSessionPath()),
		SessionKey:      getEnv("SESSION_KEY", "teacherWithAccessToken"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		QueueBackend:    getEnv("QUEUE_BACKEND", "memory"),
		QueueKey:        getEnv("QUEUE_KEY", "attendance:taps"),
		DeviceID:        getEnv("DEVICE_ID", "local-rpi"),
		KioskSection:    getEnv("KIOSK_SECTION", ""),
		EnrollKey:       getEnv("KIOSK_ENROLL_KEY", ""),
		TapDedupWindow:  durationEnv("TAP_DEDUP_WINDOW", 5*time.Second),
		Forward:         boolEnv("KIOSK_FORWARD", true),
		JWTIssuer:       getEnv("JWT_ISSUER", "rfid-kiosk"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:       durationEnv("ACCESS_TTL", 24*time.Hour),
		RefreshTTL:      durationEnv("REFRESH_TTL", 30*24*time.Hour),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "rfidattend", "session.json")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
