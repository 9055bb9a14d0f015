package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/metrics"
	"github.com/natacion/clubmanager/internal/models"
	svc "github.com/natacion/clubmanager/internal/services"
)

type ReminderConfig struct {
	Schedule  string // standard 5-field cron spec
	DaysAhead int
	Location  *time.Location
}

// Scheduler sends payment expiry reminders to linked Telegram chats on a cron schedule.
type Scheduler struct {
	db   *gorm.DB
	c    Sender
	cfg  ReminderConfig
	log  logrus.FieldLogger
	cron *cron.Cron
	now  func() time.Time
}

func NewScheduler(gdb *gorm.DB, c Sender, cfg ReminderConfig, log logrus.FieldLogger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	s := &Scheduler{
		db:   gdb,
		c:    c,
		cfg:  cfg,
		log:  log,
		cron: cron.New(cron.WithLocation(cfg.Location)),
		now:  time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.Schedule, s.tick); err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", cfg.Schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running tick to finish.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	sent, err := s.RunOnce(ctx, s.now().In(s.cfg.Location))
	if err != nil {
		s.log.WithError(err).Error("payment reminders failed")
		return
	}
	s.log.WithField("sent", sent).Info("payment reminders done")
}

// ReminderDue is a swimmer whose fee window ends on a reminder day.
type ReminderDue struct {
	Swimmer  models.Swimmer
	DaysLeft int
}

// DueReminders lists swimmers whose payment ends exactly DaysAhead days from
// today or today itself.
func (s *Scheduler) DueReminders(today time.Time) ([]ReminderDue, error) {
	day := svc.DateOnly(today)
	offsets := []int{s.cfg.DaysAhead}
	if s.cfg.DaysAhead != 0 {
		offsets = append(offsets, 0)
	}

	var out []ReminderDue
	for _, ahead := range offsets {
		start := day.AddDate(0, 0, ahead)
		end := start.AddDate(0, 0, 1)
		var swimmers []models.Swimmer
		if err := s.db.Omit("Photo").
			Where("is_swimmer = ? AND payment_valid_until >= ? AND payment_valid_until < ?", true, start, end).
			Order("id asc").
			Find(&swimmers).Error; err != nil {
			return nil, err
		}
		for _, sw := range swimmers {
			out = append(out, ReminderDue{Swimmer: sw, DaysLeft: ahead})
		}
	}
	return out, nil
}

// RunOnce sends today's reminders and returns how many were delivered.
// Chats that blocked the bot are marked undeliverable.
func (s *Scheduler) RunOnce(ctx context.Context, today time.Time) (int, error) {
	due, err := s.DueReminders(today)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	// Batch-load TelegramUsers for all swimmer IDs in one query.
	swimmerIDs := make([]uint, 0, len(due))
	for _, d := range due {
		swimmerIDs = append(swimmerIDs, d.Swimmer.ID)
	}
	var tgUsers []models.TelegramUser
	if err := s.db.Where("swimmer_id IN ? AND deliverable = ?", swimmerIDs, true).Find(&tgUsers).Error; err != nil {
		return 0, err
	}
	tgMap := chatsBySwimmer(tgUsers)

	sent := 0
	for _, d := range due {
		for _, tu := range tgMap[d.Swimmer.ID] {
			err := s.c.SendMessage(ctx, tu.ChatID, reminderText(d), MainKeyboard())
			var apiErr *APIError
			switch {
			case err == nil:
				sent++
				metrics.RecordReminder("sent")
			case errors.As(err, &apiErr) && apiErr.Blocked():
				metrics.RecordReminder("blocked")
				_ = s.db.Model(&models.TelegramUser{}).Where("id = ?", tu.ID).Update("deliverable", false).Error
			default:
				metrics.RecordReminder("failed")
				s.log.WithError(err).WithField("chat_id", tu.ChatID).Warn("payment reminder not delivered")
			}
		}
	}
	return sent, nil
}

// chatsBySwimmer groups linked chats by swimmer; unlinked chats are skipped.
func chatsBySwimmer(tgUsers []models.TelegramUser) map[uint][]models.TelegramUser {
	out := make(map[uint][]models.TelegramUser, len(tgUsers))
	for _, tu := range tgUsers {
		if tu.SwimmerID != nil {
			out[*tu.SwimmerID] = append(out[*tu.SwimmerID], tu)
		}
	}
	return out
}

func reminderText(d ReminderDue) string {
	name := html.EscapeString(d.Swimmer.Name)
	until := d.Swimmer.PaymentValidUntil.Format("02/01/2006")
	if d.DaysLeft == 0 {
		return fmt.Sprintf("⏰ La cuota de %s vence hoy (%s). Renuévala en el club para seguir compitiendo.", name, until)
	}
	return fmt.Sprintf("⏰ La cuota de %s vence en %d días (%s).", name, d.DaysLeft, until)
}
