package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/models"
)

var today = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

type sentMessage struct {
	ChatID int64
	Text   string
}

// fakeSender records messages; chats listed in blocked fail like a blocked bot.
type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	blocked map[int64]bool
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blocked[chatID] {
		return &APIError{Method: "sendMessage", Code: 403, Description: "Forbidden: bot was blocked by the user"}
	}
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "bot.db")+"?_foreign_keys=on", logger.Silent)
	require.NoError(t, err)
	return gdb
}

func nullLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func swimmerExpiringIn(t *testing.T, gdb *gorm.DB, name string, days int) models.Swimmer {
	t.Helper()
	until := today.AddDate(0, 0, days)
	paid := until.AddDate(0, 0, -365)
	sw := models.Swimmer{Name: name, IsSwimmer: true, LastPaymentDate: &paid, PaymentValidUntil: &until}
	require.NoError(t, gdb.Create(&sw).Error)
	return sw
}

func linkChat(t *testing.T, gdb *gorm.DB, sw models.Swimmer, chatID int64) models.TelegramUser {
	t.Helper()
	tu := models.TelegramUser{TelegramUserID: chatID, ChatID: chatID, SwimmerID: &sw.ID, Deliverable: true}
	require.NoError(t, gdb.Create(&tu).Error)
	return tu
}
