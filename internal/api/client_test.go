package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdcli/td/internal/commands"
)

// newTestClient builds a client against srv with instantaneous sleeps,
// recording every backoff duration into the returned slice.
func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)
	c := New("test-token", opts...)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestSyncRetriesOn429WithRetryAfter(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"sync_token": "tok-1", "full_sync": true}`))
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv)
	resp, err := c.Sync(context.Background(), FullSyncRequest())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.SyncToken)
	assert.Equal(t, 2, calls)
	require.Len(t, *slept, 1)
	assert.Equal(t, 2*time.Second, (*slept)[0])
}

func TestSyncRetryExhaustion(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv)
	_, err := c.Sync(context.Background(), FullSyncRequest())

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	require.NotNil(t, rl.RetryAfter)
	assert.EqualValues(t, 1, *rl.RetryAfter)
	// maxRetries=3 means 4 attempts total and 3 waits between them.
	assert.Equal(t, 4, calls)
	assert.Len(t, *slept, 3)
}

func TestNon429StatusIsNeverRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, slept := newTestClient(t, srv)
	_, err := c.Sync(context.Background(), FullSyncRequest())

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestCalculateBackoff(t *testing.T) {
	c := New("tok")

	t.Run("exponential schedule", func(t *testing.T) {
		assert.Equal(t, 1*time.Second, c.calculateBackoff(0, nil))
		assert.Equal(t, 2*time.Second, c.calculateBackoff(1, nil))
		assert.Equal(t, 4*time.Second, c.calculateBackoff(2, nil))
	})

	t.Run("schedule caps at max", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, c.calculateBackoff(10, nil))
	})

	t.Run("retry-after wins", func(t *testing.T) {
		after := int64(7)
		assert.Equal(t, 7*time.Second, c.calculateBackoff(0, &after))
	})

	t.Run("retry-after capped at max", func(t *testing.T) {
		after := int64(600)
		assert.Equal(t, 30*time.Second, c.calculateBackoff(0, &after))
	})
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   *int64
	}{
		{"", nil},
		{"abc", nil},
		{"-1", nil},
		{"0", int64Ptr(0)},
		{"30", int64Ptr(30)},
	}
	for _, tt := range tests {
		got := parseRetryAfter(tt.header)
		if tt.want == nil {
			assert.Nil(t, got, "header %q", tt.header)
		} else {
			require.NotNil(t, got, "header %q", tt.header)
			assert.Equal(t, *tt.want, *got)
		}
	}
}

func TestErrorFromStatus(t *testing.T) {
	t.Run("401 auth", func(t *testing.T) {
		err := errorFromStatus(401, []byte(`{"error": "Invalid token", "error_code": 401}`))
		var ae *AuthError
		require.ErrorAs(t, err, &ae)
		assert.Contains(t, ae.Error(), "Invalid token")
	})

	t.Run("403 auth with empty body", func(t *testing.T) {
		err := errorFromStatus(403, nil)
		var ae *AuthError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "Authentication failed", ae.Message)
	})

	t.Run("404 not found", func(t *testing.T) {
		err := errorFromStatus(404, nil)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("400 validation carries tag and code", func(t *testing.T) {
		err := errorFromStatus(400, []byte(`{"error": "Invalid token", "error_code": 34, "error_tag": "SYNC_TOKEN_INVALID"}`))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "SYNC_TOKEN_INVALID", ve.Tag)
		assert.Equal(t, 34, ve.Code)
		assert.True(t, IsInvalidSyncToken(err))
	})

	t.Run("other statuses become HTTPError", func(t *testing.T) {
		err := errorFromStatus(502, []byte("bad gateway"))
		var he *HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 502, he.Status)
		assert.Equal(t, "bad gateway", he.Message)
	})
}

func TestClientStringNeverShowsToken(t *testing.T) {
	c := New("secret-token-abcdef")
	s := c.String()
	assert.NotContains(t, s, "secret-token-abcdef")
	assert.Contains(t, s, "secr...cdef")
}

func TestSyncFormEncoding(t *testing.T) {
	var gotForm map[string][]string
	var gotAuth, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"sync_token": "t"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	cmd := commands.New(commands.ItemClose, commands.Args{"id": "42"})
	_, err := c.Sync(context.Background(), CommandSyncRequest("abc", []commands.Command{cmd}))
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, []string{"abc"}, gotForm["sync_token"])
	assert.Equal(t, []string{`["all"]`}, gotForm["resource_types"])
	require.Len(t, gotForm["commands"], 1)
	assert.Contains(t, gotForm["commands"][0], `"type":"item_close"`)
	assert.Contains(t, gotForm["commands"][0], cmd.UUID)
}

func TestSyncOmitsEmptyLists(t *testing.T) {
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Write([]byte(`{"sync_token": "t"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Sync(context.Background(), SyncRequest{SyncToken: "abc"})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc"}, gotForm["sync_token"])
	_, hasTypes := gotForm["resource_types"]
	_, hasCommands := gotForm["commands"]
	assert.False(t, hasTypes)
	assert.False(t, hasCommands)
}

func TestQuickAdd(t *testing.T) {
	t.Run("rejects empty text without a request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not reach the server")
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv)
		_, err := c.QuickAdd(context.Background(), QuickAddRequest{Text: "   "})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("posts JSON and decodes the created task", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/tasks/quick", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"id": "100", "v2_id": "abc100", "content": "Pay rent", "priority": 4, "v2_project_id": "p1", "resolved_project_name": "Bills"}`))
		}))
		defer srv.Close()

		c, _ := newTestClient(t, srv)
		resp, err := c.QuickAdd(context.Background(), QuickAddRequest{Text: "Pay rent #Bills p1"})
		require.NoError(t, err)
		assert.Equal(t, "Pay rent", resp.Content)
		assert.Equal(t, "abc100", resp.TaskID())
		assert.Equal(t, "Bills", resp.ResolvedProjectName)
	})
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	_, err := c.Sync(context.Background(), FullSyncRequest())
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New("tok", WithBaseURL(srv.URL))
	_, err := c.Sync(context.Background(), FullSyncRequest())
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ExitNetwork, ExitCode(err))
}

func TestWithOptions(t *testing.T) {
	c := New("tok",
		WithBaseURL("http://localhost:9999/"),
		WithMaxRetries(5),
		WithBackoff(100*time.Millisecond, time.Second),
		WithTimeout(5*time.Second),
	)
	assert.Equal(t, "http://localhost:9999", c.baseURL)
	assert.Equal(t, 5, c.maxRetries)
	assert.Equal(t, 100*time.Millisecond, c.initialBackoff)
	assert.Equal(t, time.Second, c.maxBackoff)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)

	assert.True(t, strings.HasPrefix(c.String(), "api.Client{"))
}

func int64Ptr(v int64) *int64 { return &v }
