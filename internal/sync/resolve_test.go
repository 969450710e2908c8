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
	"github.com/tdcli/td/internal/types"
)

// resolveManager builds a manager whose cache is pre-warmed so resolution
// never reaches the network. The server fails the test if contacted.
func resolveManager(t *testing.T) *Manager {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("resolution against a warm cache must not sync")
	}))
	t.Cleanup(srv.Close)

	m, _ := newTestManager(t, srv)
	c := m.Cache()
	c.SyncToken = "tok-1"
	now := time.Now().UTC()
	c.LastSync = &now
	c.Projects = []types.Project{
		{ID: "p1", Name: "Work"},
		{ID: "p2", Name: "Personal"},
	}
	c.Sections = []types.Section{
		{ID: "s1", ProjectID: "p1", Name: "Backlog"},
		{ID: "s2", ProjectID: "p2", Name: "Backlog"},
	}
	c.Labels = []types.Label{{ID: "l1", Name: "errand"}}
	c.Items = []types.Item{
		{ID: "abcdef123456", ProjectID: "p1", Content: "First"},
		{ID: "abcdef999999", ProjectID: "p1", Content: "Second"},
		{ID: "abcd00111111", ProjectID: "p1", Content: "Done already", Checked: true},
		{ID: "zzz111", ProjectID: "p2", Content: "Other"},
	}
	c.Collaborators = []types.Collaborator{
		{ID: "u1", Email: "ada@example.com", FullName: "Ada Lovelace"},
		{ID: "u2", Email: "grace@example.com", FullName: "Grace Hopper"},
		{ID: "u3", Email: "gh2@example.com", FullName: "Grace Murray"},
	}
	c.CollaboratorStates = []types.CollaboratorState{
		{ProjectID: "p1", UserID: "u1", State: "active"},
		{ProjectID: "p1", UserID: "u2", State: "active"},
		{ProjectID: "p1", UserID: "u3", State: "active"},
	}
	c.User = &types.User{ID: "u1", Email: "ada@example.com", FullName: "Ada Lovelace"}
	c.RebuildIndexes()
	return m
}

func TestResolveProject(t *testing.T) {
	m := resolveManager(t)
	ctx := context.Background()

	t.Run("by id", func(t *testing.T) {
		p, err := m.ResolveProject(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Work", p.Name)
	})

	t.Run("by name case-insensitive", func(t *testing.T) {
		p, err := m.ResolveProject(ctx, "wOrK")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
	})
}

func TestResolveProjectSuggestsNearMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sync_token": "tok-2", "full_sync": false}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	c := m.Cache()
	c.SyncToken = "tok-1"
	c.Projects = []types.Project{{ID: "p1", Name: "Work"}, {ID: "p2", Name: "Personal"}}
	c.RebuildIndexes()

	_, err := m.ResolveProject(context.Background(), "Wrok")
	var nf *api.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Work", nf.Suggestion)
	assert.Contains(t, nf.Error(), "Did you mean 'Work'?")
}

func TestResolveProjectMissResyncsOnce(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{
			"sync_token": "tok-2",
			"full_sync": false,
			"projects": [{"id": "p9", "name": "Freshly Created"}]
		}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.Cache().SyncToken = "tok-1"
	m.Cache().RebuildIndexes()

	p, err := m.ResolveProject(context.Background(), "Freshly Created")
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.Equal(t, 1, calls)
}

func TestSuggestBounds(t *testing.T) {
	names := []string{"Work", "Personal"}
	assert.Equal(t, "Work", suggest("Wrok", names))  // distance 2
	assert.Equal(t, "Work", suggest("Wor", names))   // distance 1
	assert.Equal(t, "", suggest("work", names))      // distance 0: exact already failed
	assert.Equal(t, "", suggest("Groceries", names)) // too far
	assert.Equal(t, "", suggest("anything", nil))    // nothing to suggest
}

func TestResolveSectionScoping(t *testing.T) {
	m := resolveManager(t)
	ctx := context.Background()

	t.Run("name scoped to project", func(t *testing.T) {
		p2 := "p2"
		s, err := m.ResolveSection(ctx, "backlog", &p2)
		require.NoError(t, err)
		assert.Equal(t, "s2", s.ID)
	})

	t.Run("unscoped name takes first match", func(t *testing.T) {
		s, err := m.ResolveSection(ctx, "Backlog", nil)
		require.NoError(t, err)
		assert.Equal(t, "s1", s.ID)
	})

	t.Run("id ignores scope", func(t *testing.T) {
		p2 := "p2"
		s, err := m.ResolveSection(ctx, "s1", &p2)
		require.NoError(t, err)
		assert.Equal(t, "s1", s.ID)
	})
}

func TestResolveLabel(t *testing.T) {
	m := resolveManager(t)
	l, err := m.ResolveLabel(context.Background(), "ERRAND")
	require.NoError(t, err)
	assert.Equal(t, "l1", l.ID)
}

func TestResolveItemByPrefix(t *testing.T) {
	m := resolveManager(t)
	ctx := context.Background()

	t.Run("exact id", func(t *testing.T) {
		it, err := m.ResolveItemByPrefix(ctx, "abcdef123456", nil)
		require.NoError(t, err)
		assert.Equal(t, "First", it.Content)
	})

	t.Run("unique prefix", func(t *testing.T) {
		it, err := m.ResolveItemByPrefix(ctx, "abcdef1", nil)
		require.NoError(t, err)
		assert.Equal(t, "First", it.Content)
	})

	t.Run("ambiguous prefix lists candidates", func(t *testing.T) {
		_, err := m.ResolveItemByPrefix(ctx, "abcdef", nil)
		var amb *AmbiguousError
		require.ErrorAs(t, err, &amb)
		assert.Equal(t, "abcdef", amb.Input)
		assert.Len(t, amb.Candidates, 2)
		assert.Contains(t, amb.Error(), `Ambiguous task ID "abcdef" matches 2 candidates:`)
		assert.Contains(t, amb.Error(), "abcdef  First")
	})

	t.Run("checked filter narrows prefix matches", func(t *testing.T) {
		unchecked := false
		it, err := m.ResolveItemByPrefix(ctx, "abcd", &unchecked)
		var amb *AmbiguousError
		require.ErrorAs(t, err, &amb)
		assert.Nil(t, it)

		checked := true
		it, err = m.ResolveItemByPrefix(ctx, "abcd", &checked)
		require.NoError(t, err)
		assert.Equal(t, "Done already", it.Content)
	})
}

func TestResolveItemMissHasNoSuggestion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sync_token": "tok-2", "full_sync": false}`))
	}))
	defer srv.Close()

	m, _ := newTestManager(t, srv)
	m.Cache().SyncToken = "tok-1"
	m.Cache().RebuildIndexes()

	_, err := m.ResolveItem(context.Background(), "missing")
	var nf *api.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Task", nf.Resource)
	assert.Empty(t, nf.Suggestion)
}

func TestResolveCollaborator(t *testing.T) {
	m := resolveManager(t)

	t.Run("me resolves to current user", func(t *testing.T) {
		c, err := m.ResolveCollaborator("me", "p1")
		require.NoError(t, err)
		assert.Equal(t, "u1", c.ID)
	})

	t.Run("me fails off shared projects", func(t *testing.T) {
		_, err := m.ResolveCollaborator("me", "p2")
		var nf *api.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("by email", func(t *testing.T) {
		c, err := m.ResolveCollaborator("GRACE@example.com", "p1")
		require.NoError(t, err)
		assert.Equal(t, "u2", c.ID)
	})

	t.Run("by exact name", func(t *testing.T) {
		c, err := m.ResolveCollaborator("grace hopper", "p1")
		require.NoError(t, err)
		assert.Equal(t, "u2", c.ID)
	})

	t.Run("substring matching one person", func(t *testing.T) {
		c, err := m.ResolveCollaborator("lovelace", "p1")
		require.NoError(t, err)
		assert.Equal(t, "u1", c.ID)
	})

	t.Run("ambiguous substring", func(t *testing.T) {
		_, err := m.ResolveCollaborator("grace", "p1")
		var amb *AmbiguousError
		require.ErrorAs(t, err, &amb)
		assert.ElementsMatch(t, []string{"Grace Hopper", "Grace Murray"}, amb.Candidates)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := m.ResolveCollaborator("nobody", "p1")
		var nf *api.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestIsSharedProject(t *testing.T) {
	m := resolveManager(t)
	assert.True(t, m.IsSharedProject("p1"))
	assert.False(t, m.IsSharedProject("p2"))
}
