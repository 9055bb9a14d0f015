package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var sessionLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02/01/2006 15:04",
}

var dateParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// parseSessionDate accepts RFC 3339, a few fixed layouts in loc, or natural
// language relative to now ("next saturday at 10am", "tomorrow 17:30").
// Seconds are dropped so overlap checks compare whole minutes.
func parseSessionDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range sessionLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	r, err := dateParser.Parse(strings.ToLower(s), now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize date %q", s)
	}
	return r.Time.In(loc).Truncate(time.Minute), nil
}

// fmtDateTime renders a session date in the club's time zone.
func fmtDateTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("Mon, 02 Jan 2006 15:04")
}
