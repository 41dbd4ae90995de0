package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	mu      sync.Mutex
	sent    []map[string]string
	polls   int
	updates string
	onSend  func()
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/botTOKEN/sendMessage":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.sent = append(f.sent, body)
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
		if f.onSend != nil {
			f.onSend()
		}
	case "/botTOKEN/getUpdates":
		f.polls++
		if f.polls == 1 {
			_, _ = w.Write([]byte(`{"ok":true,"result":` + f.updates + `}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	default:
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}
}

func TestNotify(t *testing.T) {
	api := &fakeBotAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c := NewClient("TOKEN", "42", WithBaseURL(srv.URL), WithLogger(zerolog.Nop()))
	require.NoError(t, c.Notify(context.Background(), "*ALERT* SPY"))

	require.Len(t, api.sent, 1)
	assert.Equal(t, "42", api.sent[0]["chat_id"])
	assert.Equal(t, "*ALERT* SPY", api.sent[0]["text"])
	assert.Equal(t, "Markdown", api.sent[0]["parse_mode"])
}

func TestNotify_APIError(t *testing.T) {
	srv := httptest.NewServer(&fakeBotAPI{})
	defer srv.Close()

	c := NewClient("WRONG", "42", WithBaseURL(srv.URL), WithLogger(zerolog.Nop()))
	err := c.Notify(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrAPI)
}

func TestListener_RepliesToAuthorizedChatOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := &fakeBotAPI{
		updates: `[
			{"update_id": 10, "message": {"text": "/analyze nvda", "chat": {"id": 99}, "from": {"username": "mallory"}}},
			{"update_id": 11, "message": {"text": "hello", "chat": {"id": 42}}},
			{"update_id": 12, "message": {"text": " /ping ", "chat": {"id": 42}}}
		]`,
		onSend: cancel,
	}
	srv := httptest.NewServer(api)
	defer srv.Close()

	c := NewClient("TOKEN", "42", WithBaseURL(srv.URL), WithLogger(zerolog.Nop()))
	l := NewListener(c)
	l.pollTimeout = 0
	l.retryDelay = 10 * time.Millisecond

	var mu sync.Mutex
	var received []string
	handler := func(_ context.Context, cmd string) string {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, cmd)
		return "pong"
	}

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, handler) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}

	assert.Equal(t, []string{"/ping"}, received)
	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.sent, 1)
	assert.Equal(t, "pong", api.sent[0]["text"])
}

func TestListener_InvalidChatID(t *testing.T) {
	c := NewClient("TOKEN", "not-a-number", WithLogger(zerolog.Nop()))
	err := NewListener(c).Run(context.Background(), func(context.Context, string) string { return "" })
	assert.Error(t, err)
}
