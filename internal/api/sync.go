package api

import (
	"encoding/json"
	"time"

	"github.com/tdcli/td/internal/commands"
	"github.com/tdcli/td/internal/types"
)

// FullSyncToken is the sentinel sync token requesting all visible state.
const FullSyncToken = "*"

// SyncRequest is one call against the sync endpoint. ResourceTypes and
// Commands may each be empty; empty lists are omitted from the wire form.
type SyncRequest struct {
	SyncToken     string
	ResourceTypes []string
	Commands      []commands.Command
}

// FullSyncRequest requests everything the server knows.
func FullSyncRequest() SyncRequest {
	return SyncRequest{SyncToken: FullSyncToken, ResourceTypes: []string{"all"}}
}

// IncrementalSyncRequest requests changes since syncToken.
func IncrementalSyncRequest(syncToken string) SyncRequest {
	return SyncRequest{SyncToken: syncToken, ResourceTypes: []string{"all"}}
}

// CommandSyncRequest sends a command batch and asks for the affected
// resources back, so the cache can absorb the result without another sync.
func CommandSyncRequest(syncToken string, cmds []commands.Command) SyncRequest {
	return SyncRequest{SyncToken: syncToken, ResourceTypes: []string{"all"}, Commands: cmds}
}

// SyncResponse is the sync endpoint's reply.
type SyncResponse struct {
	SyncToken       string     `json:"sync_token"`
	FullSync        bool       `json:"full_sync"`
	FullSyncDateUTC *time.Time `json:"full_sync_date_utc,omitempty"`

	Items              []types.Item              `json:"items,omitempty"`
	Projects           []types.Project           `json:"projects,omitempty"`
	Sections           []types.Section           `json:"sections,omitempty"`
	Labels             []types.Label             `json:"labels,omitempty"`
	Notes              []types.Note              `json:"notes,omitempty"`
	ProjectNotes       []types.ProjectNote       `json:"project_notes,omitempty"`
	Reminders          []types.Reminder          `json:"reminders,omitempty"`
	Filters            []types.Filter            `json:"filters,omitempty"`
	Collaborators      []types.Collaborator      `json:"collaborators,omitempty"`
	CollaboratorStates []types.CollaboratorState `json:"collaborator_states,omitempty"`
	User               *types.User               `json:"user,omitempty"`

	SyncStatus    map[string]CommandStatus `json:"sync_status,omitempty"`
	TempIDMapping map[string]string        `json:"temp_id_mapping,omitempty"`
}

// HasErrors reports whether any command in the batch failed.
func (r *SyncResponse) HasErrors() bool {
	for _, st := range r.SyncStatus {
		if !st.OK {
			return true
		}
	}
	return false
}

// CommandError returns the failure for a command uuid, or nil on success.
func (r *SyncResponse) CommandError(uuid string) *CommandStatus {
	st, ok := r.SyncStatus[uuid]
	if !ok || st.OK {
		return nil
	}
	return &st
}

// CommandStatus is one entry of sync_status: the literal "ok" or an object
// carrying error_code and error.
type CommandStatus struct {
	OK        bool
	ErrorCode int
	Error     string
}

func (s *CommandStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.OK = str == "ok"
		return nil
	}
	var obj struct {
		ErrorCode int    `json:"error_code"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.OK = false
	s.ErrorCode = obj.ErrorCode
	s.Error = obj.Error
	return nil
}

func (s CommandStatus) MarshalJSON() ([]byte, error) {
	if s.OK {
		return json.Marshal("ok")
	}
	return json.Marshal(struct {
		ErrorCode int    `json:"error_code"`
		Error     string `json:"error"`
	}{s.ErrorCode, s.Error})
}
