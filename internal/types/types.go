// Package types defines the entity records mirrored from the Todoist sync API.
package types

import "strings"

// Item represents a single task.
type Item struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	ProjectID      string    `json:"project_id"`
	SectionID      *string   `json:"section_id,omitempty"`
	ParentID       *string   `json:"parent_id,omitempty"`
	Content        string    `json:"content"`
	Description    string    `json:"description,omitempty"`
	Priority       int       `json:"priority"` // wire semantics: 1..4, 4 is most urgent
	Due            *Due      `json:"due,omitempty"`
	Deadline       *Deadline `json:"deadline,omitempty"`
	Duration       *Duration `json:"duration,omitempty"`
	Labels         []string  `json:"labels,omitempty"` // label names, not IDs
	Checked        bool      `json:"checked,omitempty"`
	IsDeleted      bool      `json:"is_deleted,omitempty"`
	AddedAt        string    `json:"added_at,omitempty"`
	CompletedAt    *string   `json:"completed_at,omitempty"`
	ChildOrder     int       `json:"child_order,omitempty"`
	DayOrder       int       `json:"day_order,omitempty"`
	Collapsed      bool      `json:"collapsed,omitempty"`
	AddedByUID     string    `json:"added_by_uid,omitempty"`
	AssignedByUID  *string   `json:"assigned_by_uid,omitempty"`
	ResponsibleUID *string   `json:"responsible_uid,omitempty"`
}

// HasLabel reports whether the item carries the label name, case-insensitively.
func (i *Item) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// Project represents a task project.
type Project struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color,omitempty"`
	ParentID     *string `json:"parent_id,omitempty"`
	ChildOrder   int     `json:"child_order,omitempty"`
	Collapsed    bool    `json:"collapsed,omitempty"`
	Shared       bool    `json:"shared,omitempty"`
	IsDeleted    bool    `json:"is_deleted,omitempty"`
	IsArchived   bool    `json:"is_archived,omitempty"`
	IsFavorite   bool    `json:"is_favorite,omitempty"`
	InboxProject bool    `json:"inbox_project,omitempty"`
	ViewStyle    string  `json:"view_style,omitempty"`
}

// Section groups items inside a project.
type Section struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order,omitempty"`
	Collapsed    bool   `json:"collapsed,omitempty"`
	IsDeleted    bool   `json:"is_deleted,omitempty"`
	IsArchived   bool   `json:"is_archived,omitempty"`
	AddedAt      string `json:"added_at,omitempty"`
}

// Label is a personal label; items reference labels by name.
type Label struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	ItemOrder  int    `json:"item_order,omitempty"`
	IsDeleted  bool   `json:"is_deleted,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// Note is a comment on an item.
type Note struct {
	ID        string `json:"id"`
	ItemID    string `json:"item_id"`
	Content   string `json:"content"`
	PostedAt  string `json:"posted_at,omitempty"`
	PostedUID string `json:"posted_uid,omitempty"`
	IsDeleted bool   `json:"is_deleted,omitempty"`
}

// ProjectNote is a comment on a project.
type ProjectNote struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Content   string `json:"content"`
	PostedAt  string `json:"posted_at,omitempty"`
	PostedUID string `json:"posted_uid,omitempty"`
	IsDeleted bool   `json:"is_deleted,omitempty"`
}

// Reminder fires before or at an item's due time.
type Reminder struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	Type         string `json:"type,omitempty"` // "relative", "absolute", "location"
	Due          *Due   `json:"due,omitempty"`
	MinuteOffset *int   `json:"minute_offset,omitempty"`
	NotifyUID    string `json:"notify_uid,omitempty"`
	IsDeleted    bool   `json:"is_deleted,omitempty"`
}

// Filter is a saved filter query.
type Filter struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Query      string `json:"query"`
	Color      string `json:"color,omitempty"`
	ItemOrder  int    `json:"item_order,omitempty"`
	IsDeleted  bool   `json:"is_deleted,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// Collaborator is a user visible through shared projects.
type Collaborator struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	ImageID  string `json:"image_id,omitempty"`
}

// CollaboratorState links a collaborator to a project. State "deleted"
// entries are dropped during merges and never stored.
type CollaboratorState struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	State     string `json:"state,omitempty"` // "active", "invited", "deleted"
	IsDeleted bool   `json:"is_deleted,omitempty"`
}

// IsActive reports whether the state should count toward sharing.
func (cs *CollaboratorState) IsActive() bool {
	return !cs.IsDeleted && cs.State != "deleted"
}

// User is the authenticated account singleton.
type User struct {
	ID             string  `json:"id"`
	Email          string  `json:"email,omitempty"`
	FullName       string  `json:"full_name,omitempty"`
	TZInfo         *TZInfo `json:"tz_info,omitempty"`
	InboxProjectID string  `json:"inbox_project_id,omitempty"`
	AutoReminder   int     `json:"auto_reminder,omitempty"`
	PremiumStatus  string  `json:"premium_status,omitempty"`
}
