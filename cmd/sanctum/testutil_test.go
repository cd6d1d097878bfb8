package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	v1 "github.com/bggdog/sanctum-video-review/internal/api/v1"
	"github.com/bggdog/sanctum-video-review/internal/board"
	"github.com/bggdog/sanctum-video-review/internal/events"
	"github.com/bggdog/sanctum-video-review/internal/handlers"
	"github.com/bggdog/sanctum-video-review/internal/migrations"
	"github.com/bggdog/sanctum-video-review/internal/review"
)

// mockServer creates an httptest.Server that verifies each request's path
// and method before handing it to the configured handler.
type mockServer struct {
	t          *testing.T
	handler    http.HandlerFunc
	expectPath string
	expectMeth string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	m.expectMeth = method
	return m
}

func (m *mockServer) ExpectGET() *mockServer  { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer { return m.ExpectMethod(http.MethodPost) }

// Handler sets a custom handler, called after verification.
func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

// RespondJSON responds with v encoded as JSON.
func (m *mockServer) RespondJSON(v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, v)
	}
	return m
}

// RespondError responds with the server's error envelope.
func (m *mockServer) RespondError(status int, code, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, status, code, message)
	}
	return m
}

// Build starts the server; it is closed when the test ends.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}

// liveServer is a real API server over an in-memory database, with the
// board running as it does in sanctumd.
type liveServer struct {
	URL   string
	store *review.Store
	bus   *events.Bus
	board *handlers.BoardHandler
}

func newLiveServer(t *testing.T) *liveServer {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	store := review.NewStore(db)
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, nil)
	h := handlers.NewBoardHandler(bus, store, board.Config{}, nil)

	api, err := v1.NewWithDeps(v1.ServerDeps{Videos: store, Bus: bus, EventLog: eventLog, Board: h}, v1.Config{})
	require.NoError(t, err)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		srv.Close()
		_ = bus.Close()
	})
	return &liveServer{URL: srv.URL, store: store, bus: bus, board: h}
}

func (s *liveServer) addVideo(t *testing.T, title string, status review.Status) *review.Video {
	t.Helper()
	v := &review.Video{Title: title, MediaURL: "gs://sanctum/" + title + ".mp4", UploadedBy: "alice", Status: status}
	require.NoError(t, s.store.AddVideo(v))
	_ = s.bus.Publish(context.Background(), &events.VideoCreated{
		BaseEvent:  events.NewBaseEvent(events.EventVideoCreated, events.EntityVideo, v.ID),
		Title:      v.Title,
		Status:     string(v.Status),
		UploadedBy: v.UploadedBy,
	})
	return v
}

// runCmd executes the CLI against serverURL as user alice and returns stdout.
func runCmd(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--server", serverURL, "--user", "alice"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
