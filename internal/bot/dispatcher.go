package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
	svc "github.com/natacion/clubmanager/internal/services"
)

const (
	btnStatus = "Estado de la cuota"
	btnStop   = "Dejar de avisar"
)

// Dispatcher answers chat updates: phone sharing links the chat to a swimmer,
// /estado reports the membership fee and /stop mutes reminders.
type Dispatcher struct {
	db  *gorm.DB
	c   Sender
	log logrus.FieldLogger
	loc *time.Location
	now func() time.Time
}

func NewDispatcher(gdb *gorm.DB, c Sender, loc *time.Location, log logrus.FieldLogger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{db: gdb, c: c, log: log, loc: loc, now: time.Now}
}

func ContactKeyboard() ReplyKeyboard {
	return ReplyKeyboard{
		Keyboard:       [][]KeyboardButton{{{Text: "Compartir mi teléfono", RequestContact: true}}},
		ResizeKeyboard: true,
	}
}

func MainKeyboard() ReplyKeyboard {
	return ReplyKeyboard{
		Keyboard:       [][]KeyboardButton{{{Text: btnStatus}, {Text: btnStop}}},
		ResizeKeyboard: true,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, u *Update) error {
	if u.Message == nil || u.Message.From == nil || u.Message.Chat == nil {
		return nil
	}
	m := u.Message
	chat := m.Chat.ID
	from := m.From

	var tu models.TelegramUser
	if err := d.db.Where("telegram_user_id = ?", from.ID).
		Attrs(models.TelegramUser{ChatID: chat, Username: from.Username, FirstName: from.FirstName, Deliverable: true}).
		FirstOrCreate(&tu, models.TelegramUser{TelegramUserID: from.ID}).Error; err != nil {
		return fmt.Errorf("upsert telegram user %d: %w", from.ID, err)
	}

	if m.Contact != nil && m.Contact.UserID == from.ID {
		return d.handleContact(ctx, &tu, chat, m.Contact.PhoneNumber)
	}

	text := strings.TrimSpace(m.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		if !tu.Deliverable {
			if err := d.db.Model(&tu).Update("deliverable", true).Error; err != nil {
				return err
			}
		}
		return d.c.SendMessage(ctx, chat, "¡Hola! Comparte tu teléfono para recibir los avisos de tu cuota.", ContactKeyboard())
	case strings.EqualFold(text, btnStatus), strings.HasPrefix(text, "/estado"), strings.HasPrefix(text, "/status"):
		return d.handleStatus(ctx, &tu, chat)
	case strings.EqualFold(text, btnStop), strings.HasPrefix(text, "/stop"):
		if err := d.db.Model(&tu).Update("deliverable", false).Error; err != nil {
			return err
		}
		return d.c.SendMessage(ctx, chat, "No te enviaremos más avisos. Escribe /start para volver a activarlos.", nil)
	default:
		return d.c.SendMessage(ctx, chat, "Comandos: /estado, /stop", MainKeyboard())
	}
}

func (d *Dispatcher) handleContact(ctx context.Context, tu *models.TelegramUser, chat int64, phone string) error {
	tu.Phone = svc.NormPhone(phone)
	sw, err := svc.FindSwimmerByPhone(d.db, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := d.db.Save(tu).Error; err != nil {
			return err
		}
		return d.c.SendMessage(ctx, chat, "No encontramos ningún nadador con ese teléfono. Pide al club que lo revise.", nil)
	}
	if err != nil {
		return err
	}

	now := d.now()
	tu.SwimmerID = &sw.ID
	tu.LinkedAt = &now
	tu.Deliverable = true
	tu.ChatID = chat
	if err := d.db.Save(tu).Error; err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"swimmer_id": sw.ID, "chat_id": chat}).Info("telegram chat linked")
	return d.c.SendMessage(ctx, chat, fmt.Sprintf("✅ Vinculado a <b>%s</b>", html.EscapeString(sw.Name)), MainKeyboard())
}

func (d *Dispatcher) handleStatus(ctx context.Context, tu *models.TelegramUser, chat int64) error {
	if tu.SwimmerID == nil {
		return d.c.SendMessage(ctx, chat, "Aún no está vinculado. Comparte tu teléfono primero.", ContactKeyboard())
	}
	var sw models.Swimmer
	if err := d.db.Omit("Photo").First(&sw, *tu.SwimmerID).Error; err != nil {
		return err
	}
	return d.c.SendMessage(ctx, chat, statusText(sw, d.now().In(d.loc)), MainKeyboard())
}

func statusText(sw models.Swimmer, now time.Time) string {
	st := svc.StatusOf(sw, now)
	name := html.EscapeString(sw.Name)
	if sw.PaymentValidUntil == nil {
		return fmt.Sprintf("%s no tiene ninguna cuota registrada.", name)
	}
	until := sw.PaymentValidUntil.Format("02/01/2006")
	if !st.Valid {
		return fmt.Sprintf("⚠️ La cuota de %s venció el %s.", name, until)
	}
	return fmt.Sprintf("La cuota de %s es válida hasta el %s (%.0f%% del periodo consumido).", name, until, st.Progress)
}
