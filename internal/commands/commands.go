// Package commands builds the mutation records the sync endpoint consumes.
// Each command carries a client-generated v4 UUID the server uses to
// deduplicate retried batches.
package commands

import "github.com/google/uuid"

// Type discriminates the closed set of mutation commands. Values are the
// snake_case wire names.
type Type string

const (
	ItemAdd                 Type = "item_add"
	ItemUpdate              Type = "item_update"
	ItemMove                Type = "item_move"
	ItemDelete              Type = "item_delete"
	ItemClose               Type = "item_close"
	ItemComplete            Type = "item_complete"
	ItemUncomplete          Type = "item_uncomplete"
	ItemArchive             Type = "item_archive"
	ItemUnarchive           Type = "item_unarchive"
	ItemReorder             Type = "item_reorder"
	ItemUpdateDayOrders     Type = "item_update_day_orders"
	ItemUpdateDateCompleted Type = "item_update_date_completed"

	ProjectAdd       Type = "project_add"
	ProjectUpdate    Type = "project_update"
	ProjectMove      Type = "project_move"
	ProjectDelete    Type = "project_delete"
	ProjectArchive   Type = "project_archive"
	ProjectUnarchive Type = "project_unarchive"
	ProjectReorder   Type = "project_reorder"

	SectionAdd       Type = "section_add"
	SectionUpdate    Type = "section_update"
	SectionMove      Type = "section_move"
	SectionDelete    Type = "section_delete"
	SectionArchive   Type = "section_archive"
	SectionUnarchive Type = "section_unarchive"
	SectionReorder   Type = "section_reorder"

	LabelAdd          Type = "label_add"
	LabelUpdate       Type = "label_update"
	LabelDelete       Type = "label_delete"
	LabelUpdateOrders Type = "label_update_orders"

	NoteAdd    Type = "note_add"
	NoteUpdate Type = "note_update"
	NoteDelete Type = "note_delete"

	ProjectNoteAdd    Type = "project_note_add"
	ProjectNoteUpdate Type = "project_note_update"
	ProjectNoteDelete Type = "project_note_delete"

	ReminderAdd    Type = "reminder_add"
	ReminderUpdate Type = "reminder_update"
	ReminderDelete Type = "reminder_delete"

	FilterAdd          Type = "filter_add"
	FilterUpdate       Type = "filter_update"
	FilterDelete       Type = "filter_delete"
	FilterUpdateOrders Type = "filter_update_orders"
)

// Args is the command-specific payload. Loose typing at the wire boundary;
// the builder surface below keeps call sites tight.
type Args map[string]interface{}

// Command is one mutation in a sync batch.
type Command struct {
	Type   Type   `json:"type"`
	UUID   string `json:"uuid"`
	TempID string `json:"temp_id,omitempty"`
	Args   Args   `json:"args"`
}

// New builds a command with a fresh UUID.
func New(t Type, args Args) Command {
	if args == nil {
		args = Args{}
	}
	return Command{Type: t, UUID: uuid.NewString(), Args: args}
}

// NewWithTempID builds a create command whose result later commands in the
// same batch reference through tempID.
func NewWithTempID(t Type, tempID string, args Args) Command {
	c := New(t, args)
	c.TempID = tempID
	return c
}

// NewWithUUIDAndTempID builds a command with caller-chosen identifiers.
// Used by callers that persist batches across retries.
func NewWithUUIDAndTempID(t Type, uuid, tempID string, args Args) Command {
	if args == nil {
		args = Args{}
	}
	return Command{Type: t, UUID: uuid, TempID: tempID, Args: args}
}
