package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPolling_BacksOffOnRejection(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("BAD", "42", "")
	n.APIBase = srv.URL
	n.RetryDelay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	n.StartPolling(ctx, func(context.Context, string) string { return "" })

	assert.LessOrEqual(t, polls.Load(), int32(4))
	assert.GreaterOrEqual(t, polls.Load(), int32(1))
}

func TestStartPolling_BacksOffOnOKFalse(t *testing.T) {
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls.Add(1)
		w.Write([]byte(`{"ok":false,"description":"Conflict"}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	n.RetryDelay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	n.StartPolling(ctx, func(context.Context, string) string { return "" })

	assert.LessOrEqual(t, polls.Load(), int32(4))
}

func TestStartPolling_DispatchesCommandsFromConfiguredChat(t *testing.T) {
	var (
		mu      sync.Mutex
		offsets []string
		replies []string
	)
	updates := `{"ok":true,"result":[
		{"update_id":10,"message":{"text":" /status ","chat":{"id":42}}},
		{"update_id":11,"message":{"text":"/reset","chat":{"id":7}}},
		{"update_id":12}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			mu.Lock()
			offsets = append(offsets, r.URL.Query().Get("offset"))
			first := len(offsets) == 1
			mu.Unlock()
			if first {
				w.Write([]byte(updates))
				return
			}
			select {
			case <-r.Context().Done():
			case <-time.After(50 * time.Millisecond):
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/botTOKEN/sendMessage":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			mu.Lock()
			replies = append(replies, payload["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL

	var commands []string
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	n.StartPolling(ctx, func(_ context.Context, cmd string) string {
		commands = append(commands, cmd)
		return "ok: " + cmd
	})

	assert.Equal(t, []string{"/status"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ok: /status"}, replies)
	require.GreaterOrEqual(t, len(offsets), 2)
	assert.Equal(t, "0", offsets[0])
	assert.Equal(t, "13", offsets[1])
}
