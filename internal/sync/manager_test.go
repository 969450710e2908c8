package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/cache"
	"github.com/tdcli/td/internal/commands"
)

// newTestManager wires a manager against srv with a throwaway cache dir.
func newTestManager(t *testing.T, srv *httptest.Server) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	client := api.New("test-token", api.WithBaseURL(srv.URL))
	m, err := NewManager(client, cache.NewStoreAt(dir))
	require.NoError(t, err)
	return m, dir
}

func TestFreshCacheDoesFullSync(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotToken = r.PostForm.Get("sync_token")
		w.Write([]byte(`{
			"sync_token": "tok-1",
			"full_sync": true,
			"items": [{"id": "1", "project_id": "p1", "content": "Buy milk"}],
			"projects": [{"id": "p1", "name": "Inbox"}]
		}`))
	}))
	defer srv.Close()

	m, dir := newTestManager(t, srv)
	require.True(t, m.Cache().NeedsFullSync())
	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, "*", gotToken)
	assert.Equal(t, "tok-1", m.Cache().SyncToken)
	require.Len(t, m.Cache().Items, 1)

	// state survived to disk: a second manager starts warm
	m2, err := NewManager(api.New("t"), cache.NewStoreAt(dir))
	require.NoError(t, err)
	assert.Equal(t, "tok-1", m2.Cache().SyncToken)
	assert.False(t, m2.Cache().NeedsFullSync())
}

func TestIncrementalSyncSendsStoredToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotToken = r.PostForm.Get("sync_token")
		w.Write([]byte(`{
			"sync_token": "tok-2",
			"full_sync": false,
			"items": [{"id": "2", "project_id": "p1", "content": "New task"}]
		}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-1"
	require.NoError(t, m.Sync(context.Background()))

	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, "tok-2", m.Cache().SyncToken)
	require.Len(t, m.Cache().Items, 1)
}

func TestInvalidSyncTokenFallsBackToFullSync(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		tok := r.PostForm.Get("sync_token")
		tokens = append(tokens, tok)
		if tok != "*" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "Invalid sync token", "error_code": 34, "error_tag": "SYNC_TOKEN_INVALID", "http_code": 400}`))
			return
		}
		w.Write([]byte(`{
			"sync_token": "tok-fresh",
			"full_sync": true,
			"items": [{"id": "1", "project_id": "p1", "content": "Recovered"}]
		}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-stale"
	require.NoError(t, m.Sync(context.Background()))

	// exactly two requests: the rejected incremental, then the full sync
	assert.Equal(t, []string{"tok-stale", "*"}, tokens)
	assert.Equal(t, "tok-fresh", m.Cache().SyncToken)
	require.Len(t, m.Cache().Items, 1)
	assert.Equal(t, "Recovered", m.Cache().Items[0].Content)
}

func TestOtherErrorsAreNotRecovered(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid token", "error_code": 401}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-1"
	err := m.Sync(context.Background())
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 1, calls)
}

func TestStaleness(t *testing.T) {
	m := &Manager{cache: cache.New(), staleAfter: DefaultStaleAfter}

	t.Run("never synced is stale", func(t *testing.T) {
		assert.True(t, m.IsStale(time.Now()))
	})

	last := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	m.cache.LastSync = &last

	t.Run("exactly at the threshold is fresh", func(t *testing.T) {
		assert.False(t, m.IsStale(last.Add(DefaultStaleAfter)))
	})

	t.Run("past the threshold is stale", func(t *testing.T) {
		assert.True(t, m.IsStale(last.Add(DefaultStaleAfter+time.Nanosecond)))
	})

	t.Run("threshold is adjustable", func(t *testing.T) {
		m.SetStaleAfter(time.Hour)
		assert.False(t, m.IsStale(last.Add(30*time.Minute)))
	})
}

func TestSyncIfStaleSkipsFreshCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("fresh cache must not hit the server")
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-1"
	now := time.Now().UTC()
	m.cache.LastSync = &now
	require.NoError(t, m.SyncIfStale(context.Background()))
}

func TestExecuteCommands(t *testing.T) {
	var gotCommands string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotCommands = r.PostForm.Get("commands")
		w.Write([]byte(`{
			"sync_token": "tok-3",
			"full_sync": false,
			"items": [{"id": "9001", "project_id": "p1", "content": "Created"}],
			"sync_status": {"cmd-uuid-1": "ok"},
			"temp_id_mapping": {"tmp-1": "9001"}
		}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-2"

	cmd := commands.NewWithUUIDAndTempID(commands.ItemAdd, "cmd-uuid-1", "tmp-1", commands.Args{"content": "Created"})
	resp, err := m.ExecuteCommand(context.Background(), cmd)
	require.NoError(t, err)

	assert.Contains(t, gotCommands, `"type":"item_add"`)
	assert.Contains(t, gotCommands, `"temp_id":"tmp-1"`)
	assert.False(t, resp.HasErrors())
	assert.Equal(t, "9001", resp.TempIDMapping["tmp-1"])

	// response was merged into the cache and persisted
	assert.NotNil(t, m.Cache().ItemByID("9001"))
	assert.Equal(t, "tok-3", m.Cache().SyncToken)
	reloaded, err := m.store.Load()
	require.NoError(t, err)
	assert.NotNil(t, reloaded.ItemByID("9001"))
}

func TestExecuteCommandsSurfacesPerCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"sync_token": "tok-3",
			"sync_status": {"cmd-uuid-1": {"error_code": 22, "error": "Project not found"}}
		}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.cache.SyncToken = "tok-2"

	cmd := commands.NewWithUUIDAndTempID(commands.ItemAdd, "cmd-uuid-1", "tmp-1", commands.Args{"content": "x"})
	resp, err := m.ExecuteCommand(context.Background(), cmd)
	require.NoError(t, err)
	require.True(t, resp.HasErrors())
	st := resp.CommandError("cmd-uuid-1")
	require.NotNil(t, st)
	assert.Equal(t, 22, st.ErrorCode)
}
