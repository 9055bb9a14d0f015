package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

var (
	reLetters = regexp.MustCompile(`[A-Za-z]`)
	// Only allow digits, spaces, +, -, (, ), .
	reAllowed = regexp.MustCompile(`^[0-9+\-\s\(\)\.]+$`)
	// Spanish national numbers: 9 digits starting with 6, 7, 8 or 9.
	reSpainLocal = regexp.MustCompile(`^[6-9][0-9]{8}$`)
)

// NormPhone normalizes phone numbers to the +E.164 form stored on swimmers.
// Rules: strip separators; 00.. -> +..; 34 + 9 digits -> +34..; bare 9-digit
// Spanish numbers -> +34..; ensure leading +. Garbage yields "".
func NormPhone(p string) string {
	s := strings.TrimSpace(p)
	if s == "" || reLetters.MatchString(s) || !reAllowed.MatchString(s) {
		return ""
	}

	repl := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\n", "", "\r", "")
	s = repl.Replace(s)

	switch {
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case strings.HasPrefix(s, "34") && len(s) == 11:
		s = "+" + s
	case reSpainLocal.MatchString(s):
		s = "+34" + s
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func altPhones(p string) []string {
	n := NormPhone(p)
	out := []string{n}
	if raw := strings.TrimSpace(p); raw != n && raw != "" {
		out = append(out, raw)
	}
	if strings.HasPrefix(n, "+34") && len(n) > 3 {
		out = append(out, n[3:]) // 612345678
		out = append(out, n[1:]) // 34612345678
	}
	return out
}

// FindSwimmerByPhone tries the normalized variants, then a digits-only compare in SQL.
func FindSwimmerByPhone(tx *gorm.DB, phone string) (*models.Swimmer, error) {
	var sw models.Swimmer
	for _, cand := range altPhones(phone) {
		if cand == "" {
			continue
		}
		if err := tx.Omit("Photo").Where("phone = ?", cand).First(&sw).Error; err == nil {
			return &sw, nil
		}
	}

	if in := digitsOnly(phone); in != "" {
		q := `REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(phone,'+',''),' ',''),'-',''),'(',''),')','')`
		if err := tx.Omit("Photo").Where(q+" IN ?", []string{in, "34" + in}).First(&sw).Error; err == nil {
			return &sw, nil
		}
	}
	return nil, fmt.Errorf("swimmer with phone %q: %w", phone, gorm.ErrRecordNotFound)
}
