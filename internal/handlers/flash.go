package handlers

import (
	"context"
	"fmt"

	"github.com/natacion/clubmanager/internal/notify"
)

type noticeText struct {
	Title    string
	Format   string
	Severity notify.Severity
	Sticky   bool
}

var notices = map[string]noticeText{
	"swimmers_added":     {"Swimmers added", "%d swimmers were added to %s.", notify.Success, false},
	"no_swimmers_added":  {"Swimmers added", "No new swimmers with a current payment for %s.", notify.Info, false},
	"payment_registered": {"Payment registered", "%s is paid until %s.", notify.Success, false},
	"series_generated":   {"Series generated", "%d series created for %s.", notify.Success, false},
}

// notice builds the catalog notification for key; unknown keys become a plain info message.
func notice(key string, args ...any) notify.Notification {
	t, ok := notices[key]
	if !ok {
		return notify.Notification{Title: key, Message: fmt.Sprint(args...), Severity: notify.Info}
	}
	return notify.Notification{
		Title:    t.Title,
		Message:  fmt.Sprintf(t.Format, args...),
		Severity: t.Severity,
		Sticky:   t.Sticky,
	}
}

// publish sends n to the sink; a failing sink never fails the request.
func (a *API) publish(ctx context.Context, n notify.Notification) notify.Notification {
	if err := a.Notify.Notify(ctx, n); err != nil {
		a.Log.WithError(err).WithField("title", n.Title).Warn("notification not delivered")
	}
	return n
}
