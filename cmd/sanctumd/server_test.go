package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/config"
	"github.com/bggdog/sanctum-video-review/internal/events"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestLogRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := logRequests(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
	}), logger)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/board", nil)
	req.Header.Set(v1.UserHeader, "u7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/api/v1/board")
	assert.Contains(t, out, "user=u7")
}

func TestLoadConfig(t *testing.T) {
	t.Run("discovered nothing", func(t *testing.T) {
		t.Setenv(config.EnvPath, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Chdir(t.TempDir())

		cfg, path, err := loadConfig("")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sanctum.toml")
		require.NoError(t, os.WriteFile(path, []byte("[board]\nrollback = \"snapshot\"\n"), 0o644))

		cfg, got, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
		assert.Equal(t, "snapshot", cfg.Board.Rollback)
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sanctum.toml")
		require.NoError(t, os.WriteFile(path, []byte("[server]\nport = -1\n"), 0o644))

		_, _, err := loadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	})
}

func TestNewHandler(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "data", "sanctum.db")
	db, err := openDB(cfg.Database.Path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, nil)
	t.Cleanup(func() { _ = bus.Close() })

	handler, live, err := newHandler(db, bus, eventLog, cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	require.NotNil(t, live)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos",
		strings.NewReader(`{"title":"Launch teaser","media_url":"gs://sanctum/teaser.mp4"}`))
	req.Header.Set(v1.UserHeader, "u1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp v1.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Columns[0].Count)
}
