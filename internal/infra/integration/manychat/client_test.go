package manychat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	path string
	body map[string]any
	auth string
}

func newServer(t *testing.T, failPaths map[string]bool) (*httptest.Server, *[]recorded) {
	t.Helper()
	calls := &[]recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*calls = append(*calls, recorded{path: r.URL.Path, body: body, auth: r.Header.Get("Authorization")})

		w.Header().Set("Content-Type", "application/json")
		if failPaths[r.URL.Path] {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"error","message":"subscriber not found"}`))
			return
		}
		w.Write([]byte(`{"status":"success"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestSendText_SubscriberEndpoint(t *testing.T) {
	srv, calls := newServer(t, nil)
	client := NewClient(srv.URL, "key-123", zap.NewNop())

	require.NoError(t, client.SendText(context.Background(), "sub-1", "971501234567", "hello"))

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, subscriberPath, call.path)
	assert.Equal(t, "Bearer key-123", call.auth)
	assert.Equal(t, "sub-1", call.body["subscriber_id"])
}

func TestSendText_FallsBackToPhone(t *testing.T) {
	srv, calls := newServer(t, map[string]bool{subscriberPath: true})
	client := NewClient(srv.URL, "key", zap.NewNop())

	require.NoError(t, client.SendText(context.Background(), "sub-1", "971501234567", "hello"))

	require.Len(t, *calls, 2)
	assert.Equal(t, phonePath, (*calls)[1].path)
	assert.Equal(t, "+971501234567", (*calls)[1].body["phone"])
}

func TestSendText_PhoneOnly(t *testing.T) {
	srv, calls := newServer(t, nil)
	client := NewClient(srv.URL, "key", zap.NewNop())

	require.NoError(t, client.SendText(context.Background(), "", "971501234567", "hi"))

	require.Len(t, *calls, 1)
	assert.Equal(t, phonePath, (*calls)[0].path)
}

func TestSendText_BothEndpointsFail(t *testing.T) {
	srv, _ := newServer(t, map[string]bool{subscriberPath: true, phonePath: true})
	client := NewClient(srv.URL, "key", zap.NewNop())

	err := client.SendText(context.Background(), "sub-1", "971501234567", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), phonePath)
}

func TestSendText_NoRecipient(t *testing.T) {
	client := NewClient("http://unused", "key", zap.NewNop())
	assert.ErrorIs(t, client.SendText(context.Background(), "", "", "hi"), ErrNoRecipient)
}
