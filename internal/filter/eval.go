package filter

import (
	"strings"
	"time"

	"github.com/tdcli/td/internal/types"
)

// Context carries the entity tables the evaluator resolves names against.
// Callers pre-filter deleted entities out.
type Context struct {
	Projects []types.Project
	Sections []types.Section
	Labels   []types.Label

	// Location is the user's timezone; nil means UTC.
	Location *time.Location
	// Now is the reference time; zero means time.Now.
	Now time.Time
}

// Evaluator applies a filter AST to items.
type Evaluator struct {
	ctx   Context
	loc   *time.Location
	today time.Time

	projectsByID   map[string]*types.Project
	projectsByName map[string][]*types.Project
	childProjects  map[string][]string // parent id -> child ids
	sectionsByID   map[string]*types.Section
}

// NewEvaluator indexes the context for repeated evaluation.
func NewEvaluator(ctx Context) *Evaluator {
	loc := ctx.Location
	if loc == nil {
		loc = time.UTC
	}
	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	y, m, d := now.In(loc).Date()

	e := &Evaluator{
		ctx:            ctx,
		loc:            loc,
		today:          time.Date(y, m, d, 0, 0, 0, 0, loc),
		projectsByID:   make(map[string]*types.Project, len(ctx.Projects)),
		projectsByName: make(map[string][]*types.Project),
		childProjects:  make(map[string][]string),
		sectionsByID:   make(map[string]*types.Section, len(ctx.Sections)),
	}
	for i := range ctx.Projects {
		p := &ctx.Projects[i]
		e.projectsByID[p.ID] = p
		key := strings.ToLower(p.Name)
		e.projectsByName[key] = append(e.projectsByName[key], p)
		if p.ParentID != nil {
			e.childProjects[*p.ParentID] = append(e.childProjects[*p.ParentID], p.ID)
		}
	}
	for i := range ctx.Sections {
		e.sectionsByID[ctx.Sections[i].ID] = &ctx.Sections[i]
	}
	return e
}

// Matches reports whether the item satisfies the filter.
func (e *Evaluator) Matches(node Node, item *types.Item) bool {
	switch n := node.(type) {
	case TodayNode:
		day, ok := e.dueDay(item)
		return ok && day.Equal(e.today)
	case TomorrowNode:
		day, ok := e.dueDay(item)
		return ok && day.Equal(e.today.AddDate(0, 0, 1))
	case OverdueNode:
		day, ok := e.dueDay(item)
		return ok && day.Before(e.today) && !item.Checked
	case NoDateNode:
		return item.Due == nil
	case NoLabelsNode:
		return len(item.Labels) == 0
	case Next7DaysNode:
		day, ok := e.dueDay(item)
		return ok && !day.Before(e.today) && day.Before(e.today.AddDate(0, 0, 7))
	case DateNode:
		day, ok := e.dueDay(item)
		return ok && day.Month() == n.Month && day.Day() == n.Day
	case PriorityNode:
		// UI p1 is wire priority 4
		return item.Priority == 5-n.Level
	case LabelNode:
		return item.HasLabel(n.Name)
	case ProjectNode:
		p := e.projectsByID[item.ProjectID]
		return p != nil && strings.EqualFold(p.Name, n.Name)
	case ProjectWithSubprojectsNode:
		return e.inProjectTree(n.Name, item.ProjectID)
	case SectionNode:
		if item.SectionID == nil {
			return false
		}
		s := e.sectionsByID[*item.SectionID]
		return s != nil && strings.EqualFold(s.Name, n.Name)
	case *AndNode:
		return e.Matches(n.Left, item) && e.Matches(n.Right, item)
	case *OrNode:
		return e.Matches(n.Left, item) || e.Matches(n.Right, item)
	case *NotNode:
		return !e.Matches(n.Expr, item)
	default:
		return false
	}
}

// Filter returns the items matching the filter, preserving order.
func (e *Evaluator) Filter(node Node, items []types.Item) []types.Item {
	out := make([]types.Item, 0, len(items))
	for i := range items {
		if e.Matches(node, &items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

func (e *Evaluator) dueDay(item *types.Item) (time.Time, bool) {
	if item.Due == nil {
		return time.Time{}, false
	}
	return item.Due.Day(e.loc)
}

// inProjectTree reports whether projectID is a named project or one of its
// transitive descendants.
func (e *Evaluator) inProjectTree(name, projectID string) bool {
	roots := e.projectsByName[strings.ToLower(name)]
	if len(roots) == 0 {
		return false
	}
	seen := make(map[string]bool)
	queue := make([]string, 0, len(roots))
	for _, r := range roots {
		queue = append(queue, r.ID)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		if id == projectID {
			return true
		}
		queue = append(queue, e.childProjects[id]...)
	}
	return false
}
