// Package cache holds the local mirror of server state and its persistence.
//
// The sync manager owns exactly one Cache. Merges are synchronous; the
// secondary indexes are derived and rebuilt after every merge and load,
// never serialized.
package cache

import (
	"strings"
	"time"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/types"
)

// Cache is the aggregate of all mirrored entities plus sync bookkeeping.
type Cache struct {
	SyncToken       string     `json:"sync_token"`
	FullSyncDateUTC *time.Time `json:"full_sync_date_utc,omitempty"`
	LastSync        *time.Time `json:"last_sync,omitempty"`

	Items              []types.Item              `json:"items"`
	Projects           []types.Project           `json:"projects"`
	Sections           []types.Section           `json:"sections"`
	Labels             []types.Label             `json:"labels"`
	Notes              []types.Note              `json:"notes"`
	ProjectNotes       []types.ProjectNote       `json:"project_notes"`
	Reminders          []types.Reminder          `json:"reminders"`
	Filters            []types.Filter            `json:"filters"`
	Collaborators      []types.Collaborator      `json:"collaborators"`
	CollaboratorStates []types.CollaboratorState `json:"collaborator_states"`
	User               *types.User               `json:"user,omitempty"`

	idx indexes
}

// New returns an empty cache that requires a full sync.
func New() *Cache {
	c := &Cache{SyncToken: api.FullSyncToken}
	c.RebuildIndexes()
	return c
}

// IsEmpty reports whether no entities are cached.
func (c *Cache) IsEmpty() bool {
	return len(c.Items) == 0 && len(c.Projects) == 0 && len(c.Sections) == 0 &&
		len(c.Labels) == 0 && len(c.Notes) == 0 && len(c.ProjectNotes) == 0 &&
		len(c.Reminders) == 0 && len(c.Filters) == 0 &&
		len(c.Collaborators) == 0 && len(c.CollaboratorStates) == 0 && c.User == nil
}

// NeedsFullSync reports whether the cache has never completed a full sync.
func (c *Cache) NeedsFullSync() bool {
	return c.SyncToken == api.FullSyncToken
}

// ApplySyncResponse dispatches on the response's full_sync flag.
func (c *Cache) ApplySyncResponse(r *api.SyncResponse) {
	if r.FullSync {
		c.ApplyFullSyncResponse(r)
	} else {
		c.ApplyIncrementalSyncResponse(r)
	}
}

// ApplyFullSyncResponse replaces every tracked sequence with the response's,
// dropping deleted entries, and records the full-sync timestamp.
func (c *Cache) ApplyFullSyncResponse(r *api.SyncResponse) {
	now := time.Now().UTC()

	c.Items = dropDeleted(r.Items, func(e types.Item) bool { return e.IsDeleted })
	c.Projects = dropDeleted(r.Projects, func(e types.Project) bool { return e.IsDeleted })
	c.Sections = dropDeleted(r.Sections, func(e types.Section) bool { return e.IsDeleted })
	c.Labels = dropDeleted(r.Labels, func(e types.Label) bool { return e.IsDeleted })
	c.Notes = dropDeleted(r.Notes, func(e types.Note) bool { return e.IsDeleted })
	c.ProjectNotes = dropDeleted(r.ProjectNotes, func(e types.ProjectNote) bool { return e.IsDeleted })
	c.Reminders = dropDeleted(r.Reminders, func(e types.Reminder) bool { return e.IsDeleted })
	c.Filters = dropDeleted(r.Filters, func(e types.Filter) bool { return e.IsDeleted })
	c.Collaborators = dropDeleted(r.Collaborators, func(e types.Collaborator) bool { return false })
	c.CollaboratorStates = dropDeleted(r.CollaboratorStates, collaboratorStateDeleted)

	c.SyncToken = r.SyncToken
	if r.FullSyncDateUTC != nil {
		t := r.FullSyncDateUTC.UTC()
		c.FullSyncDateUTC = &t
	} else {
		c.FullSyncDateUTC = &now
	}
	c.LastSync = &now
	if r.User != nil {
		c.User = r.User
	}
	c.RebuildIndexes()
}

// ApplyIncrementalSyncResponse delta-merges the response: deleted records
// are removed, everything else is upserted. full_sync_date_utc is untouched.
func (c *Cache) ApplyIncrementalSyncResponse(r *api.SyncResponse) {
	c.merge(r)
	c.SyncToken = r.SyncToken
	now := time.Now().UTC()
	c.LastSync = &now
	if r.User != nil {
		c.User = r.User
	}
	c.RebuildIndexes()
}

// ApplyMutationResponse merges a command batch's response. Identical to the
// incremental merge; full_sync_date_utc stays untouched even when the
// server sets full_sync on the response.
func (c *Cache) ApplyMutationResponse(r *api.SyncResponse) {
	c.ApplyIncrementalSyncResponse(r)
}

func (c *Cache) merge(r *api.SyncResponse) {
	upsertMerge(&c.Items, r.Items,
		func(e types.Item) string { return e.ID },
		func(e types.Item) bool { return e.IsDeleted })
	upsertMerge(&c.Projects, r.Projects,
		func(e types.Project) string { return e.ID },
		func(e types.Project) bool { return e.IsDeleted })
	upsertMerge(&c.Sections, r.Sections,
		func(e types.Section) string { return e.ID },
		func(e types.Section) bool { return e.IsDeleted })
	upsertMerge(&c.Labels, r.Labels,
		func(e types.Label) string { return e.ID },
		func(e types.Label) bool { return e.IsDeleted })
	upsertMerge(&c.Notes, r.Notes,
		func(e types.Note) string { return e.ID },
		func(e types.Note) bool { return e.IsDeleted })
	upsertMerge(&c.ProjectNotes, r.ProjectNotes,
		func(e types.ProjectNote) string { return e.ID },
		func(e types.ProjectNote) bool { return e.IsDeleted })
	upsertMerge(&c.Reminders, r.Reminders,
		func(e types.Reminder) string { return e.ID },
		func(e types.Reminder) bool { return e.IsDeleted })
	upsertMerge(&c.Filters, r.Filters,
		func(e types.Filter) string { return e.ID },
		func(e types.Filter) bool { return e.IsDeleted })
	upsertMerge(&c.Collaborators, r.Collaborators,
		func(e types.Collaborator) string { return e.ID },
		func(e types.Collaborator) bool { return false })
	upsertMerge(&c.CollaboratorStates, r.CollaboratorStates,
		collaboratorStateKey, collaboratorStateDeleted)
}

// collaborator states have a composite primary key.
func collaboratorStateKey(cs types.CollaboratorState) string {
	return cs.ProjectID + "\x00" + cs.UserID
}

func collaboratorStateDeleted(cs types.CollaboratorState) bool {
	return cs.IsDeleted || cs.State == "deleted"
}

// dropDeleted copies src without its deleted entries.
func dropDeleted[T any](src []T, deleted func(T) bool) []T {
	out := make([]T, 0, len(src))
	for _, e := range src {
		if !deleted(e) {
			out = append(out, e)
		}
	}
	return out
}

// upsertMerge applies delta semantics to one entity sequence: deleted
// records remove the existing entry with the same key, everything else
// updates in place or appends.
func upsertMerge[T any](dst *[]T, src []T, key func(T) string, deleted func(T) bool) {
	if len(src) == 0 {
		return
	}
	byKey := make(map[string]int, len(*dst))
	for i, e := range *dst {
		byKey[key(e)] = i
	}
	for _, incoming := range src {
		k := key(incoming)
		pos, exists := byKey[k]
		switch {
		case deleted(incoming) && exists:
			*dst = append((*dst)[:pos], (*dst)[pos+1:]...)
			delete(byKey, k)
			for other, i := range byKey {
				if i > pos {
					byKey[other] = i - 1
				}
			}
		case deleted(incoming):
			// removal of something we never had; nothing to do
		case exists:
			(*dst)[pos] = incoming
		default:
			*dst = append(*dst, incoming)
			byKey[k] = len(*dst) - 1
		}
	}
}

// indexes are the derived secondary lookups. Name-keyed maps fold case.
type indexes struct {
	itemsByID              map[string]*types.Item
	projectsByID           map[string]*types.Project
	projectsByNameCI       map[string]*types.Project
	sectionsByID           map[string]*types.Section
	labelsByID             map[string]*types.Label
	labelsByNameCI         map[string]*types.Label
	collaboratorsByID      map[string]*types.Collaborator
	collaboratorsByProject map[string][]string
}

// RebuildIndexes recomputes every secondary index from the primary tables.
// Must run after load and after each merge; entry pointers are only valid
// until the next mutation of the backing slices.
func (c *Cache) RebuildIndexes() {
	idx := indexes{
		itemsByID:              make(map[string]*types.Item, len(c.Items)),
		projectsByID:           make(map[string]*types.Project, len(c.Projects)),
		projectsByNameCI:       make(map[string]*types.Project, len(c.Projects)),
		sectionsByID:           make(map[string]*types.Section, len(c.Sections)),
		labelsByID:             make(map[string]*types.Label, len(c.Labels)),
		labelsByNameCI:         make(map[string]*types.Label, len(c.Labels)),
		collaboratorsByID:      make(map[string]*types.Collaborator, len(c.Collaborators)),
		collaboratorsByProject: make(map[string][]string),
	}
	for i := range c.Items {
		idx.itemsByID[c.Items[i].ID] = &c.Items[i]
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		idx.projectsByID[p.ID] = p
		idx.projectsByNameCI[strings.ToLower(p.Name)] = p
	}
	for i := range c.Sections {
		idx.sectionsByID[c.Sections[i].ID] = &c.Sections[i]
	}
	for i := range c.Labels {
		l := &c.Labels[i]
		idx.labelsByID[l.ID] = l
		idx.labelsByNameCI[strings.ToLower(l.Name)] = l
	}
	for i := range c.Collaborators {
		idx.collaboratorsByID[c.Collaborators[i].ID] = &c.Collaborators[i]
	}
	for i := range c.CollaboratorStates {
		cs := &c.CollaboratorStates[i]
		if cs.IsActive() {
			idx.collaboratorsByProject[cs.ProjectID] = append(idx.collaboratorsByProject[cs.ProjectID], cs.UserID)
		}
	}
	c.idx = idx
}

// ItemByID looks up an item in the index.
func (c *Cache) ItemByID(id string) *types.Item {
	return c.idx.itemsByID[id]
}

// ProjectByID looks up a project in the index.
func (c *Cache) ProjectByID(id string) *types.Project {
	return c.idx.projectsByID[id]
}

// ProjectByName looks up a project by case-insensitive exact name.
func (c *Cache) ProjectByName(name string) *types.Project {
	return c.idx.projectsByNameCI[strings.ToLower(name)]
}

// SectionByID looks up a section in the index.
func (c *Cache) SectionByID(id string) *types.Section {
	return c.idx.sectionsByID[id]
}

// LabelByID looks up a label in the index.
func (c *Cache) LabelByID(id string) *types.Label {
	return c.idx.labelsByID[id]
}

// LabelByName looks up a label by case-insensitive exact name.
func (c *Cache) LabelByName(name string) *types.Label {
	return c.idx.labelsByNameCI[strings.ToLower(name)]
}

// CollaboratorByID looks up a collaborator in the index.
func (c *Cache) CollaboratorByID(id string) *types.Collaborator {
	return c.idx.collaboratorsByID[id]
}

// ProjectCollaboratorIDs returns user IDs with an active collaborator state
// on the project, owner included.
func (c *Cache) ProjectCollaboratorIDs(projectID string) []string {
	return c.idx.collaboratorsByProject[projectID]
}
