package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natacion/clubmanager/internal/bot"
)

type sentMessage struct {
	chatID int64
	text   string
}

type stubSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *stubSender) SendMessage(_ context.Context, chatID int64, text string, _ any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func TestTelegramWebhook(t *testing.T) {
	api, _, _ := newTestAPI(t)
	sender := &stubSender{}
	api.Bot = bot.NewDispatcher(api.DB, sender, madrid, api.Log)
	api.WebhookSecret = "hook-secret"

	start := `{"update_id":1,"message":{"message_id":7,"from":{"id":99,"first_name":"Ana"},"chat":{"id":501},"text":"/start"}}`

	rec := call(t, api.TelegramWebhook, http.MethodPost, "/tg/webhook", "/tg/webhook?secret=wrong", start)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, sender.sent)

	rec = call(t, api.TelegramWebhook, http.MethodPost, "/tg/webhook", "/tg/webhook?secret=hook-secret", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, api.TelegramWebhook, http.MethodPost, "/tg/webhook", "/tg/webhook?secret=hook-secret", start)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(501), sender.sent[0].chatID)
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI(t)
	rec := call(t, api.Health, http.MethodGet, "/healthz", "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
