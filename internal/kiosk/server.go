package kiosk

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rfidattend/internal/auth"
	"rfidattend/internal/httpmiddleware"
)

// ServerConfig configures the kiosk HTTP surface.
type ServerConfig struct {
	SigningKey      string
	Issuer          string
	EnrollKey       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RateLimitPerMin int
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// NewRouter builds the kiosk gin engine.
func NewRouter(svc *Service, cfg ServerConfig, checks map[string]HealthCheck) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())

	// Enrolment is limited per client IP, tap traffic per device. Health and
	// metrics scrapes are not limited.
	ipLimit := httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware()
	deviceLimit := httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware()

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		status := http.StatusOK
		for name, check := range checks {
			healthy := check(c.Request.Context())
			body[name] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	})

	issue := func(c *gin.Context, deviceID string, status int) {
		tokens, err := auth.IssueDevice(deviceID, cfg.Issuer, cfg.SigningKey, cfg.AccessTTL, cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		if err := svc.SaveRefreshToken(c.Request.Context(), deviceID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
			log.Printf("save refresh token for %s: %v", deviceID, err)
		}
		c.JSON(status, gin.H{
			"access_token":  tokens.AccessToken,
			"refresh_token": tokens.RefreshToken,
			"expires_at":    tokens.AccessExp.Unix(),
		})
	}

	r.POST("/v1/devices/register", ipLimit, func(c *gin.Context) {
		var req struct {
			DeviceID  string `json:"device_id" binding:"required"`
			EnrollKey string `json:"enroll_key"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if cfg.EnrollKey != "" && subtle.ConstantTimeCompare([]byte(req.EnrollKey), []byte(cfg.EnrollKey)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid enroll key"})
			return
		}
		if err := svc.RegisterDevice(c.Request.Context(), req.DeviceID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		issue(c, req.DeviceID, http.StatusCreated)
	})

	r.POST("/v1/devices/refresh", ipLimit, func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		claims, err := auth.Parse(req.RefreshToken, cfg.SigningKey, cfg.Issuer)
		if err != nil || claims.Role != auth.RoleDeviceRefresh {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		deviceID, err := svc.ConsumeRefreshToken(c.Request.Context(), req.RefreshToken)
		switch {
		case errors.Is(err, ErrRefreshInvalid), err == nil && deviceID != claims.DeviceID:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		case err != nil:
			log.Printf("refresh for %s: %v", claims.DeviceID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
			return
		}
		issue(c, deviceID, http.StatusOK)
	})

	v1 := r.Group("/v1", auth.DeviceAuth(cfg.SigningKey, cfg.Issuer), deviceLimit)

	v1.POST("/taps", func(c *gin.Context) {
		var req struct {
			RFIDUID string `json:"rfid_uid" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tap, duplicate, err := svc.Tap(c.Request.Context(), req.RFIDUID, auth.DeviceFrom(c))
		switch {
		case errors.Is(err, ErrUIDRequired), errors.Is(err, ErrDeviceRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("tap intake failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "tap not recorded"})
			return
		}
		status := http.StatusAccepted
		if duplicate {
			status = http.StatusOK
		}
		c.JSON(status, gin.H{"tap": tap, "duplicate": duplicate})
	})

	v1.GET("/taps", func(c *gin.Context) {
		limit, offset := 50, 0
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		if v := c.Query("offset"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				offset = parsed
			}
		}
		taps, err := svc.Recent(c.Request.Context(), c.Query("device_id"), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if taps == nil {
			taps = []Tap{}
		}
		c.JSON(http.StatusOK, gin.H{"taps": taps})
	})

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
