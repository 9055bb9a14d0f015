package bot

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/events"
	"github.com/natacion/clubmanager/internal/models"
	"github.com/natacion/clubmanager/internal/notify"
)

var (
	hookDB     *gorm.DB
	hookSender Sender
	hookLog    logrus.FieldLogger = logrus.StandardLogger()
)

// Install wires the payment confirmation hook to a database and a sender.
// Until it is called the hook does nothing.
func Install(gdb *gorm.DB, c Sender, log logrus.FieldLogger) {
	hookDB, hookSender = gdb, c
	if log != nil {
		hookLog = log
	}
}

func init() {
	events.OnPaymentRegistered = func(sw models.Swimmer, order models.SaleOrder) {
		if hookDB == nil || hookSender == nil {
			return
		}
		var tgUsers []models.TelegramUser
		if err := hookDB.Where("swimmer_id = ? AND deliverable = ?", sw.ID, true).Find(&tgUsers).Error; err != nil {
			hookLog.WithError(err).Warn("load telegram chats")
			return
		}
		msg := paymentText(sw, order)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, tu := range tgUsers {
			if err := hookSender.SendMessage(ctx, tu.ChatID, msg, nil); err != nil {
				hookLog.WithError(err).WithField("chat_id", tu.ChatID).Warn("payment confirmation not delivered")
			}
		}
	}
}

func paymentText(sw models.Swimmer, order models.SaleOrder) string {
	until := "-"
	if sw.PaymentValidUntil != nil {
		until = sw.PaymentValidUntil.Format("02/01/2006")
	}
	return fmt.Sprintf("🎉 <b>Cuota registrada</b>\n%s: válida hasta el %s\nRef: <code>%s</code>",
		html.EscapeString(sw.Name), until, order.Reference)
}

// ChatSink forwards notifications to one admin chat.
type ChatSink struct {
	Sender Sender
	ChatID int64
}

func (s ChatSink) Notify(ctx context.Context, n notify.Notification) error {
	if s.Sender == nil || s.ChatID == 0 {
		return nil
	}
	text := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Message))
	return s.Sender.SendMessage(ctx, s.ChatID, text, nil)
}
