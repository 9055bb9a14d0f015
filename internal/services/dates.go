package services

import "time"

// PaymentValidityDays is the length of the membership payment window.
const PaymentValidityDays = 365

// DateOnly drops the clock part, keeping the calendar day as written in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b (negative when b is earlier).
func daysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
