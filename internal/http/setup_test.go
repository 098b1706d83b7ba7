package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/bearthen/library/internal/database"
	"github.com/bearthen/library/internal/library"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func setupTestStore(t *testing.T) (*library.Store, *testClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	dbPath := filepath.Join(t.TempDir(), "library.db")
	store, err := library.Open(dbPath, database.DefaultSettings(), library.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, clock
}

func setupTestRouter(t *testing.T) (*gin.Engine, *library.Store, *testClock) {
	t.Helper()
	store, clock := setupTestStore(t)
	router := NewRouter(RouterConfig{
		Database:    store,
		Books:       store,
		Authors:     store,
		Lists:       store,
		Exporter:    store,
		Maintenance: store,
		Version:     "test",
	})
	return router, store, clock
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
