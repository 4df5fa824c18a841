package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/aircursor/internal/app"
	"github.com/ayusman/aircursor/internal/gesture"
	"github.com/ayusman/aircursor/internal/store"
)

type fakeController struct {
	mu      sync.Mutex
	enabled bool
	frame   app.Frame
	stats   app.Stats
}

func (c *fakeController) Last() app.Frame  { return c.frame }
func (c *fakeController) Stats() app.Stats { return c.stats }

func (c *fakeController) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *fakeController) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/health", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "ok", response["status"])
		assert.Contains(t, response, "uptime")
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			rec := serve(s, method, "/api/health", "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		}
	})
}

func TestServer_OptionalRoutes(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/status", "/api/history", "/api/telemetry", "/api/stream", "/api/nonexistent"} {
		rec := serve(s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestServer_Status(t *testing.T) {
	ctrl := &fakeController{
		enabled: true,
		frame: app.Frame{
			Seq:       42,
			HandFound: true,
			Gesture:   gesture.Minimize,
			Cursor:    image.Pt(640, 360),
		},
		stats: app.Stats{Frames: 42, CaptureFailures: 1},
	}
	s := New(Config{Controller: ctrl, Session: "3f1c"})

	t.Run("reports latest frame", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/status", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got struct {
			Enabled bool   `json:"enabled"`
			Session string `json:"session"`
			Stats   struct {
				Frames uint64 `json:"frames"`
			} `json:"stats"`
			Frame struct {
				Seq     uint64 `json:"seq"`
				Gesture string `json:"gesture"`
				Cursor  struct{ X, Y int }
			} `json:"frame"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

		assert.True(t, got.Enabled)
		assert.Equal(t, "3f1c", got.Session)
		assert.Equal(t, uint64(42), got.Stats.Frames)
		assert.Equal(t, uint64(42), got.Frame.Seq)
		assert.Equal(t, "minimize", got.Frame.Gesture)
		assert.Equal(t, 640, got.Frame.Cursor.X)
	})

	t.Run("POST pauses and resumes", func(t *testing.T) {
		rec := serve(s, http.MethodPost, "/api/status", `{"enabled":false}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, ctrl.IsEnabled())

		rec = serve(s, http.MethodPost, "/api/status", `{"enabled":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ctrl.IsEnabled())
	})

	t.Run("POST rejects a body without enabled", func(t *testing.T) {
		for _, body := range []string{`{}`, `not json`} {
			rec := serve(s, http.MethodPost, "/api/status", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
		assert.True(t, ctrl.IsEnabled())
	})

	t.Run("rejects other methods", func(t *testing.T) {
		rec := serve(s, http.MethodDelete, "/api/status", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_History(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	first, err := st.Sessions().Start(ctx, "noop")
	require.NoError(t, err)
	second, err := st.Sessions().Start(ctx, "noop")
	require.NoError(t, err)

	require.NoError(t, st.Journal(first.ID).RecordAction(ctx, "click", 10, 20, nil))
	require.NoError(t, st.Journal(first.ID).RecordAction(ctx, "minimize", 10, 20, nil))
	require.NoError(t, st.Journal(second.ID).RecordAction(ctx, "close", 0, 0, nil))

	s := New(Config{Store: st})

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) []store.Event {
		t.Helper()
		require.Equal(t, http.StatusOK, rec.Code)
		var events []store.Event
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
		return events
	}

	t.Run("recent across sessions", func(t *testing.T) {
		events := decode(t, serve(s, http.MethodGet, "/api/history", ""))
		assert.Len(t, events, 3)
	})

	t.Run("limit", func(t *testing.T) {
		events := decode(t, serve(s, http.MethodGet, "/api/history?limit=1", ""))
		assert.Len(t, events, 1)
	})

	t.Run("one session in order", func(t *testing.T) {
		events := decode(t, serve(s, http.MethodGet, "/api/history?session="+first.ID, ""))
		require.Len(t, events, 2)
		assert.Equal(t, "click", events[0].Kind)
		assert.Equal(t, "minimize", events[1].Kind)
	})

	t.Run("unknown session is empty", func(t *testing.T) {
		rec := serve(s, http.MethodGet, "/api/history?session=missing", "")
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		for _, limit := range []string{"0", "-3", "ten"} {
			rec := serve(s, http.MethodGet, "/api/history?limit="+limit, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		}
	})
}

func TestServer_Serve_StopsOnCancel(t *testing.T) {
	s := New(Config{Telemetry: NewTelemetry(nil)})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}
