package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestNewParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	l.Info().Msg("hidden")
	l.Warn().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Fatalf("info line should be filtered: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Fatalf("warn line missing: %s", buf.String())
	}
}

func TestRequestsLogsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	r := gin.New()
	r.Use(Requests(l))
	r.GET("/api/ballots/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ballot not found"})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ballots/x", nil))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["level"] != "warn" {
		t.Fatalf("level: got %v", line["level"])
	}
	if line["path"] != "/api/ballots/:id" {
		t.Fatalf("path: got %v", line["path"])
	}
	if line["status"] != float64(http.StatusNotFound) {
		t.Fatalf("status: got %v", line["status"])
	}
	if line["component"] != "http" {
		t.Fatalf("component: got %v", line["component"])
	}
}
