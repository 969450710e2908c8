// Package sync reconciles the local cache with the Todoist server and
// resolves user-supplied identifiers against it.
package sync

import (
	"context"
	"time"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/cache"
	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/debug"
)

// DefaultStaleAfter is how old the cache may get before reads trigger a
// background refresh.
const DefaultStaleAfter = 5 * time.Minute

// Manager owns the HTTP client, the cache store, and the one in-memory
// cache. Its methods are not safe for concurrent use: callers serialize
// access, typically one manager per CLI invocation.
type Manager struct {
	client     *api.Client
	store      *cache.Store
	cache      *cache.Cache
	staleAfter time.Duration
}

// NewManager loads the cached state from store (a fresh cache when no file
// exists yet).
func NewManager(client *api.Client, store *cache.Store) (*Manager, error) {
	c, err := store.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	return &Manager{
		client:     client,
		store:      store,
		cache:      c,
		staleAfter: DefaultStaleAfter,
	}, nil
}

// SetStaleAfter overrides the staleness threshold.
func (m *Manager) SetStaleAfter(d time.Duration) {
	m.staleAfter = d
}

// Cache exposes the in-memory cache for read-only queries.
func (m *Manager) Cache() *cache.Cache {
	return m.cache
}

// IsStale reports whether the last successful sync is older than the
// threshold. Exactly at the threshold is not stale.
func (m *Manager) IsStale(now time.Time) bool {
	if m.cache.LastSync == nil {
		return true
	}
	return now.Sub(*m.cache.LastSync) > m.staleAfter
}

// NeedsSync reports whether reads should refresh first.
func (m *Manager) NeedsSync(now time.Time) bool {
	return m.cache.NeedsFullSync() || m.IsStale(now)
}

// Sync reconciles the cache with the server: a full sync when the cache has
// never synced, an incremental sync otherwise. A server rejection of the
// sync token is recovered automatically by falling back to a full sync;
// this is the sole recovery path and cannot be disabled.
func (m *Manager) Sync(ctx context.Context) error {
	if m.cache.NeedsFullSync() {
		return m.FullSync(ctx)
	}

	resp, err := m.client.Sync(ctx, api.IncrementalSyncRequest(m.cache.SyncToken))
	if err != nil {
		if api.IsInvalidSyncToken(err) {
			debug.Warnf("td: sync token no longer valid, performing full sync\n")
			m.cache.SyncToken = api.FullSyncToken
			return m.FullSync(ctx)
		}
		return err
	}

	m.cache.ApplyIncrementalSyncResponse(resp)
	return m.persist()
}

// FullSync unconditionally replaces the cache with server state.
func (m *Manager) FullSync(ctx context.Context) error {
	resp, err := m.client.Sync(ctx, api.FullSyncRequest())
	if err != nil {
		return err
	}
	m.cache.ApplyFullSyncResponse(resp)
	return m.persist()
}

// SyncIfStale refreshes only when the cache needs it. Used on read paths.
func (m *Manager) SyncIfStale(ctx context.Context) error {
	if !m.NeedsSync(time.Now()) {
		return nil
	}
	return m.Sync(ctx)
}

// ExecuteCommands sends a mutation batch. The request also asks for the
// affected resources so the response can be merged immediately; the merged
// response is returned so callers can consult temp_id_mapping and
// per-command sync_status. Per-command failures do not error here —
// inspecting the status map is the caller's responsibility.
func (m *Manager) ExecuteCommands(ctx context.Context, cmds []commands.Command) (*api.SyncResponse, error) {
	resp, err := m.client.Sync(ctx, api.CommandSyncRequest(m.cache.SyncToken, cmds))
	if err != nil {
		return nil, err
	}
	m.cache.ApplyMutationResponse(resp)
	if err := m.persist(); err != nil {
		return nil, err
	}
	return resp, nil
}

// ExecuteCommand is the single-command convenience over ExecuteCommands.
func (m *Manager) ExecuteCommand(ctx context.Context, cmd commands.Command) (*api.SyncResponse, error) {
	return m.ExecuteCommands(ctx, []commands.Command{cmd})
}

func (m *Manager) persist() error {
	return m.store.Save(m.cache)
}
