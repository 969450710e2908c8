package api

import "github.com/tdcli/td/internal/types"

// QuickAddRequest creates a task from natural-language text. The server
// parses #Project, @label, p1..p4 and date words out of Text.
type QuickAddRequest struct {
	Text         string `json:"text"`
	Note         string `json:"note,omitempty"`
	Reminder     string `json:"reminder,omitempty"`
	AutoReminder bool   `json:"auto_reminder,omitempty"`
}

// QuickAddResponse carries the created task plus what the server parsed out
// of the text. Legacy and v2 IDs both appear; prefer v2 when present.
type QuickAddResponse struct {
	ID          string          `json:"id"`
	V2ID        string          `json:"v2_id,omitempty"`
	ProjectID   string          `json:"project_id"`
	V2ProjectID string          `json:"v2_project_id,omitempty"`
	SectionID   *string         `json:"section_id,omitempty"`
	Content     string          `json:"content"`
	Description string          `json:"description,omitempty"`
	Priority    int             `json:"priority"`
	Due         *types.Due      `json:"due,omitempty"`
	Deadline    *types.Deadline `json:"deadline,omitempty"`
	Duration    *types.Duration `json:"duration,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Checked     bool            `json:"checked,omitempty"`
	AddedAt     string          `json:"added_at,omitempty"`

	ResolvedProjectName string `json:"resolved_project_name,omitempty"`
	ResolvedSectionName string `json:"resolved_section_name,omitempty"`
}

// TaskID returns the preferred task identifier.
func (r *QuickAddResponse) TaskID() string {
	if r.V2ID != "" {
		return r.V2ID
	}
	return r.ID
}

// AsItem converts the response into an Item suitable for cache insertion.
// Most callers rely on the next sync instead.
func (r *QuickAddResponse) AsItem() types.Item {
	projectID := r.ProjectID
	if r.V2ProjectID != "" {
		projectID = r.V2ProjectID
	}
	return types.Item{
		ID:          r.TaskID(),
		ProjectID:   projectID,
		SectionID:   r.SectionID,
		Content:     r.Content,
		Description: r.Description,
		Priority:    r.Priority,
		Due:         r.Due,
		Deadline:    r.Deadline,
		Duration:    r.Duration,
		Labels:      r.Labels,
		Checked:     r.Checked,
		AddedAt:     r.AddedAt,
	}
}
