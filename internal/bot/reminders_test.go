package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natacion/clubmanager/internal/models"
)

// TestChatsBySwimmer verifies that TelegramUser records are keyed by
// *SwimmerID and that records with a nil SwimmerID are skipped.
func TestChatsBySwimmer(t *testing.T) {
	sid1, sid2 := uint(10), uint(20)
	tgUsers := []models.TelegramUser{
		{ID: 1, ChatID: 100, SwimmerID: &sid1, Deliverable: true},
		{ID: 2, ChatID: 200, SwimmerID: &sid2, Deliverable: true},
		{ID: 3, ChatID: 201, SwimmerID: &sid2, Deliverable: true},
		{ID: 4, ChatID: 300, SwimmerID: nil, Deliverable: true},
	}

	m := chatsBySwimmer(tgUsers)
	assert.Len(t, m, 2)
	assert.Len(t, m[sid2], 2, "a swimmer may be linked from several chats")
	assert.EqualValues(t, 100, m[sid1][0].ChatID)
	_, ok := m[0]
	assert.False(t, ok, "nil SwimmerID produced a spurious entry at key 0")
}

func TestScheduler_RunOnce(t *testing.T) {
	gdb := openTestDB(t)
	soon := swimmerExpiringIn(t, gdb, "Soon", 15)
	lastDay := swimmerExpiringIn(t, gdb, "Last Day", 0)
	notYet := swimmerExpiringIn(t, gdb, "Not Yet", 10)
	swimmerExpiringIn(t, gdb, "Unlinked", 15)
	blocker := swimmerExpiringIn(t, gdb, "Blocker", 15)

	linkChat(t, gdb, soon, 1001)
	linkChat(t, gdb, lastDay, 1002)
	linkChat(t, gdb, notYet, 1003)
	blocked := linkChat(t, gdb, blocker, 1004)

	sender := &fakeSender{blocked: map[int64]bool{1004: true}}
	s, err := NewScheduler(gdb, sender, ReminderConfig{Schedule: "0 9 * * *", DaysAhead: 15}, nullLogger())
	require.NoError(t, err)

	sent, err := s.RunOnce(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	assert.EqualValues(t, 1001, msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "15 días")
	assert.EqualValues(t, 1002, msgs[1].ChatID)
	assert.Contains(t, msgs[1].Text, "vence hoy")

	var stored models.TelegramUser
	require.NoError(t, gdb.First(&stored, blocked.ID).Error)
	assert.False(t, stored.Deliverable)
}

func TestScheduler_DueReminders_SkipsNonSwimmers(t *testing.T) {
	gdb := openTestDB(t)
	sw := swimmerExpiringIn(t, gdb, "Parent", 0)
	require.NoError(t, gdb.Model(&sw).Update("is_swimmer", false).Error)

	s, err := NewScheduler(gdb, &fakeSender{}, ReminderConfig{Schedule: "@daily", DaysAhead: 0}, nullLogger())
	require.NoError(t, err)
	due, err := s.DueReminders(today)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestNewScheduler_BadSpec(t *testing.T) {
	_, err := NewScheduler(openTestDB(t), &fakeSender{}, ReminderConfig{Schedule: "whenever"}, nullLogger())
	assert.Error(t, err)
}
