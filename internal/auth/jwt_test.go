package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := IssueDevice("kiosk-1", "rfid-kiosk", "k", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := Parse(pair.AccessToken, "k", "rfid-kiosk")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.DeviceID != "kiosk-1" || claims.Role != "device" {
		t.Errorf("Parse() = %+v", claims)
	}

	if _, err := Parse(pair.AccessToken, "other-key", "rfid-kiosk"); err == nil {
		t.Error("Parse() with wrong key returned nil error")
	}
	if _, err := Parse(pair.AccessToken, "k", "someone-else"); !errors.Is(err, ErrIssuerMismatch) {
		t.Errorf("Parse() wrong issuer error = %v", err)
	}
}

func TestIssuedTokensAreUnique(t *testing.T) {
	a, err := IssueDevice("kiosk-1", "rfid-kiosk", "k", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	b, err := IssueDevice("kiosk-1", "rfid-kiosk", "k", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if a.RefreshToken == b.RefreshToken || a.AccessToken == b.AccessToken {
		t.Error("two issues in the same second produced the same token")
	}
	claims, err := Parse(a.RefreshToken, "k", "rfid-kiosk")
	if err != nil || claims.Role != RoleDeviceRefresh {
		t.Errorf("refresh claims = %+v, %v", claims, err)
	}
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "64fa",
		"role": "teacher",
		"exp":  exp.Unix(),
	}).SignedString([]byte("backend-secret"))

	info, err := Inspect(tok)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Subject != "64fa" || info.Role != "teacher" || !info.ExpiresAt.Equal(exp) {
		t.Errorf("Inspect() = %+v", info)
	}
	if _, err := Inspect("not-a-token"); err == nil {
		t.Error("Inspect() on garbage returned nil error")
	}
}

func TestDeviceAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pair, _ := IssueDevice("kiosk-1", "iss", "k", time.Hour, time.Hour)

	r := gin.New()
	r.GET("/p", DeviceAuth("k", "iss"), func(c *gin.Context) {
		c.String(http.StatusOK, DeviceFrom(c))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + pair.RefreshToken, want: http.StatusUnauthorized},
		{name: "access token", header: "Bearer " + pair.AccessToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "kiosk-1" {
				t.Errorf("device = %q", w.Body.String())
			}
		})
	}
}
