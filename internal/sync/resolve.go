package sync

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tdcli/td/internal/api"
	"github.com/tdcli/td/internal/types"
)

// idPrefixLen is how much of an item ID ambiguity listings show.
const idPrefixLen = 6

// maxAmbiguousCandidates bounds the ambiguity listing.
const maxAmbiguousCandidates = 5

// AmbiguousError reports an identifier matching several entities.
type AmbiguousError struct {
	Kind       string
	Input      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ambiguous %s %q matches %d candidates:", e.Kind, e.Input, len(e.Candidates))
	for _, c := range e.Candidates {
		sb.WriteString("\n  ")
		sb.WriteString(c)
	}
	return sb.String()
}

// ResolveProject finds a non-deleted project by exact ID or case-insensitive
// name, syncing once on a cache miss. A near-miss name produces a fuzzy
// suggestion in the returned error.
func (m *Manager) ResolveProject(ctx context.Context, nameOrID string) (*types.Project, error) {
	lookup := func() *types.Project {
		if p := m.cache.ProjectByID(nameOrID); p != nil {
			return p
		}
		return m.cache.ProjectByName(nameOrID)
	}
	if p := lookup(); p != nil {
		return p, nil
	}
	if err := m.Sync(ctx); err != nil {
		return nil, err
	}
	if p := lookup(); p != nil {
		return p, nil
	}
	names := make([]string, 0, len(m.cache.Projects))
	for i := range m.cache.Projects {
		names = append(names, m.cache.Projects[i].Name)
	}
	return nil, &api.NotFoundError{
		Resource:   "Project",
		ID:         nameOrID,
		Suggestion: suggest(nameOrID, names),
	}
}

// ResolveSection finds a section by exact ID or case-insensitive name.
// ID matches ignore the project scope; name matches respect it when given.
func (m *Manager) ResolveSection(ctx context.Context, nameOrID string, projectID *string) (*types.Section, error) {
	lookup := func() *types.Section {
		if s := m.cache.SectionByID(nameOrID); s != nil {
			return s
		}
		for i := range m.cache.Sections {
			s := &m.cache.Sections[i]
			if !strings.EqualFold(s.Name, nameOrID) {
				continue
			}
			if projectID != nil && s.ProjectID != *projectID {
				continue
			}
			return s
		}
		return nil
	}
	if s := lookup(); s != nil {
		return s, nil
	}
	if err := m.Sync(ctx); err != nil {
		return nil, err
	}
	if s := lookup(); s != nil {
		return s, nil
	}
	var names []string
	for i := range m.cache.Sections {
		s := &m.cache.Sections[i]
		if projectID != nil && s.ProjectID != *projectID {
			continue
		}
		names = append(names, s.Name)
	}
	return nil, &api.NotFoundError{
		Resource:   "Section",
		ID:         nameOrID,
		Suggestion: suggest(nameOrID, names),
	}
}

// ResolveLabel finds a label by exact ID or case-insensitive name.
func (m *Manager) ResolveLabel(ctx context.Context, nameOrID string) (*types.Label, error) {
	lookup := func() *types.Label {
		if l := m.cache.LabelByID(nameOrID); l != nil {
			return l
		}
		return m.cache.LabelByName(nameOrID)
	}
	if l := lookup(); l != nil {
		return l, nil
	}
	if err := m.Sync(ctx); err != nil {
		return nil, err
	}
	if l := lookup(); l != nil {
		return l, nil
	}
	names := make([]string, 0, len(m.cache.Labels))
	for i := range m.cache.Labels {
		names = append(names, m.cache.Labels[i].Name)
	}
	return nil, &api.NotFoundError{
		Resource:   "Label",
		ID:         nameOrID,
		Suggestion: suggest(nameOrID, names),
	}
}

// ResolveItem finds an item by exact ID. Items never carry suggestions.
func (m *Manager) ResolveItem(ctx context.Context, id string) (*types.Item, error) {
	if it := m.cache.ItemByID(id); it != nil {
		return it, nil
	}
	if err := m.Sync(ctx); err != nil {
		return nil, err
	}
	if it := m.cache.ItemByID(id); it != nil {
		return it, nil
	}
	return nil, &api.NotFoundError{Resource: "Task", ID: id}
}

// ResolveItemByPrefix finds an item by exact ID, falling back to a unique
// ID prefix. Several prefix matches produce an AmbiguousError listing up to
// five candidates. requireChecked, when set, restricts matches to completed
// (true) or open (false) items.
func (m *Manager) ResolveItemByPrefix(ctx context.Context, idOrPrefix string, requireChecked *bool) (*types.Item, error) {
	match := func() (*types.Item, error) {
		if it := m.cache.ItemByID(idOrPrefix); it != nil && checkedMatches(it, requireChecked) {
			return it, nil
		}
		var hits []*types.Item
		for i := range m.cache.Items {
			it := &m.cache.Items[i]
			if strings.HasPrefix(it.ID, idOrPrefix) && checkedMatches(it, requireChecked) {
				hits = append(hits, it)
			}
		}
		switch len(hits) {
		case 0:
			return nil, nil
		case 1:
			return hits[0], nil
		default:
			candidates := make([]string, 0, maxAmbiguousCandidates)
			for _, it := range hits {
				if len(candidates) == maxAmbiguousCandidates {
					break
				}
				candidates = append(candidates, fmt.Sprintf("%s  %s", shortID(it.ID), it.Content))
			}
			return nil, &AmbiguousError{Kind: "task ID", Input: idOrPrefix, Candidates: candidates}
		}
	}

	it, err := match()
	if err != nil || it != nil {
		return it, err
	}
	if err := m.Sync(ctx); err != nil {
		return nil, err
	}
	it, err = match()
	if err != nil || it != nil {
		return it, err
	}
	return nil, &api.NotFoundError{Resource: "Task", ID: idOrPrefix}
}

// ResolveCollaborator finds a collaborator on a project by ID, email, full
// name, or full-name substring. The literal "me" resolves to the current
// user when they hold an active state on the project.
func (m *Manager) ResolveCollaborator(nameEmailOrID, projectID string) (*types.Collaborator, error) {
	memberIDs := m.cache.ProjectCollaboratorIDs(projectID)

	if strings.EqualFold(nameEmailOrID, "me") {
		user := m.cache.User
		if user != nil && slices.Contains(memberIDs, user.ID) {
			if c := m.cache.CollaboratorByID(user.ID); c != nil {
				return c, nil
			}
			// server may omit the current user from collaborators
			return &types.Collaborator{ID: user.ID, Email: user.Email, FullName: user.FullName}, nil
		}
		return nil, &api.NotFoundError{Resource: "Collaborator", ID: nameEmailOrID}
	}

	var exact *types.Collaborator
	var substrings []*types.Collaborator
	for _, id := range memberIDs {
		c := m.cache.CollaboratorByID(id)
		if c == nil {
			continue
		}
		switch {
		case c.ID == nameEmailOrID,
			strings.EqualFold(c.Email, nameEmailOrID),
			strings.EqualFold(c.FullName, nameEmailOrID):
			exact = c
		case strings.Contains(strings.ToLower(c.FullName), strings.ToLower(nameEmailOrID)):
			substrings = append(substrings, c)
		}
		if exact != nil {
			return exact, nil
		}
	}

	switch len(substrings) {
	case 0:
		return nil, &api.NotFoundError{Resource: "Collaborator", ID: nameEmailOrID}
	case 1:
		return substrings[0], nil
	default:
		names := make([]string, 0, len(substrings))
		for _, c := range substrings {
			names = append(names, c.FullName)
		}
		return nil, &AmbiguousError{Kind: "collaborator", Input: nameEmailOrID, Candidates: names}
	}
}

// IsSharedProject reports whether at least two collaborators, the owner
// included, hold an active state on the project.
func (m *Manager) IsSharedProject(projectID string) bool {
	return len(m.cache.ProjectCollaboratorIDs(projectID)) >= 2
}

// suggest picks the closest name by Levenshtein distance, case-insensitive.
// Only near misses are worth reporting: distance 0 is an exact match the
// caller already failed to find by other means, and beyond 3 the names are
// unrelated.
func suggest(query string, names []string) string {
	best := ""
	bestDist := -1
	q := strings.ToLower(query)
	for _, name := range names {
		d := levenshtein.ComputeDistance(q, strings.ToLower(name))
		if bestDist == -1 || d < bestDist {
			best = name
			bestDist = d
		}
	}
	if bestDist >= 1 && bestDist <= 3 {
		return best
	}
	return ""
}

func checkedMatches(it *types.Item, requireChecked *bool) bool {
	return requireChecked == nil || it.Checked == *requireChecked
}

func shortID(id string) string {
	if len(id) > idPrefixLen {
		return id[:idPrefixLen]
	}
	return id
}
