package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandStatusUnmarshal(t *testing.T) {
	t.Run("ok string", func(t *testing.T) {
		var st CommandStatus
		require.NoError(t, json.Unmarshal([]byte(`"ok"`), &st))
		assert.True(t, st.OK)
	})

	t.Run("error object", func(t *testing.T) {
		var st CommandStatus
		require.NoError(t, json.Unmarshal([]byte(`{"error_code": 15, "error": "Invalid temporary id"}`), &st))
		assert.False(t, st.OK)
		assert.Equal(t, 15, st.ErrorCode)
		assert.Equal(t, "Invalid temporary id", st.Error)
	})
}

func TestSyncResponseErrors(t *testing.T) {
	raw := `{
		"sync_token": "t1",
		"sync_status": {
			"aaa": "ok",
			"bbb": {"error_code": 22, "error": "Project not found"}
		},
		"temp_id_mapping": {"tmp-1": "9001"}
	}`
	var resp SyncResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.True(t, resp.HasErrors())
	assert.Nil(t, resp.CommandError("aaa"))
	st := resp.CommandError("bbb")
	require.NotNil(t, st)
	assert.Equal(t, 22, st.ErrorCode)
	assert.Nil(t, resp.CommandError("absent"))
	assert.Equal(t, "9001", resp.TempIDMapping["tmp-1"])
}

func TestSyncRequestConstructors(t *testing.T) {
	full := FullSyncRequest()
	assert.Equal(t, FullSyncToken, full.SyncToken)
	assert.Equal(t, []string{"all"}, full.ResourceTypes)

	incr := IncrementalSyncRequest("abc")
	assert.Equal(t, "abc", incr.SyncToken)
	assert.Empty(t, incr.Commands)
}

func TestIsInvalidSyncToken(t *testing.T) {
	assert.True(t, IsInvalidSyncToken(&ValidationError{Tag: "SYNC_TOKEN_INVALID"}))
	assert.True(t, IsInvalidSyncToken(&ValidationError{Code: 34}))
	assert.False(t, IsInvalidSyncToken(&ValidationError{Message: "bad content"}))
	assert.False(t, IsInvalidSyncToken(&AuthError{}))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitRateLimit, ExitCode(&RateLimitError{}))
	assert.Equal(t, ExitNetwork, ExitCode(&NetworkError{}))
	assert.Equal(t, ExitAPI, ExitCode(&AuthError{}))
	assert.Equal(t, ExitAPI, ExitCode(&NotFoundError{Resource: "project", ID: "x"}))
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Resource: "project", ID: "Wrok"}
	assert.Equal(t, "project 'Wrok' not found. Try running 'td sync' to refresh your cache.", err.Error())

	err.Suggestion = "Work"
	assert.Contains(t, err.Error(), "Did you mean 'Work'?")
}
