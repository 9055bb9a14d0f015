package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/natacion/clubmanager/internal/bot"
)

// POST /tg/webhook?secret=...
func (a *API) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if a.Bot == nil {
		http.NotFound(w, r)
		return
	}
	if a.WebhookSecret == "" || subtle.ConstantTimeCompare([]byte(r.URL.Query().Get("secret")), []byte(a.WebhookSecret)) != 1 {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var up bot.Update
	if err := json.Unmarshal(b, &up); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	// Telegram retries non-2xx answers, so failures are logged and acknowledged.
	if err := a.Bot.Handle(r.Context(), &up); err != nil {
		a.Log.WithError(err).WithField("update_id", up.UpdateID).Warn("telegram update failed")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
