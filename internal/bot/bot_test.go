package bot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Token: "TOKEN", APIURL: srv.URL + "/"}, nil)
	require.NoError(t, c.SendMessage(context.Background(), 42, "<b>hola</b>", nil))

	assert.EqualValues(t, 42, got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.NotContains(t, got, "reply_markup")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Token: "T", APIURL: srv.URL, RetryMax: 2}, nil)
	c.http.RetryWaitMin = 0
	c.http.RetryWaitMax = 0
	require.NoError(t, c.SendMessage(context.Background(), 1, "x", nil))
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_BlockedChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Token: "T", APIURL: srv.URL}, nil)
	err := c.SendMessage(context.Background(), 1, "x", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Blocked())
	assert.Contains(t, apiErr.Error(), "blocked")
}
