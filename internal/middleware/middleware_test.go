package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/saxenaaman628/ballot-board/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(apiToken, secret string) *gin.Engine {
	r := gin.New()
	r.Use(BearerAuth(apiToken, secret))
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("subject")})
	})
	return r
}

func doAuth(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuthOpenWithoutCredentials(t *testing.T) {
	if rec := doAuth(authRouter("", ""), ""); rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	jwtToken, err := utils.GenerateJWTToken("dashboard-bot", time.Hour, "jwt-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	r := authRouter("static-token", "jwt-secret")

	cases := []struct {
		name    string
		header  string
		status  int
		subject string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic static-token", http.StatusUnauthorized, ""},
		{"wrong token", "Bearer nope", http.StatusUnauthorized, ""},
		{"static token", "Bearer static-token", http.StatusOK, "api-token"},
		{"signed token", "Bearer " + jwtToken, http.StatusOK, "dashboard-bot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doAuth(r, tc.header)
			if rec.Code != tc.status {
				t.Fatalf("status: got %d want %d", rec.Code, tc.status)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tc.status == http.StatusOK && body["subject"] != tc.subject {
				t.Fatalf("subject: got %q", body["subject"])
			}
			if tc.status == http.StatusUnauthorized && body["error"] != "Unauthorized" {
				t.Fatalf("error: got %q", body["error"])
			}
		})
	}
}

func TestErrorsRendersInternalError(t *testing.T) {
	r := gin.New()
	r.Use(Errors(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("store unavailable"))
		c.Abort()
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.JSON(http.StatusTeapot, gin.H{"error": "teapot"})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "Internal server error" {
		t.Fatalf("body: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handled", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status: got %d", rec.Code)
	}
}
