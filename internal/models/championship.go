package models

import "time"

type Championship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string     `gorm:"not null" json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Clubs    []Club                `gorm:"many2many:championship_clubs;" json:"clubs,omitempty"`
	Entries  []ChampionshipSwimmer `json:"-"`
	Sessions []Session             `json:"sessions,omitempty"`
}

// ChampionshipSwimmer is one roster entry. Roster order is insertion order (ID asc).
type ChampionshipSwimmer struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	ChampionshipID uint `gorm:"uniqueIndex:idx_champ_swimmer;not null"`
	SwimmerID      uint `gorm:"uniqueIndex:idx_champ_swimmer;not null"`
	Swimmer        Swimmer
}

type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date           *time.Time    `json:"date"`
	ChampionshipID *uint         `gorm:"index" json:"championship_id"`
	Championship   *Championship `json:"-"`

	Tests []Test `json:"tests,omitempty"`
}

type Test struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Description string `json:"description"`
	SeriesSize  int    `gorm:"default:8" json:"series_size"`

	SessionID  *uint     `gorm:"index" json:"session_id"`
	Session    *Session  `json:"-"`
	StyleID    *uint     `json:"style_id"`
	Style      *Style    `json:"style,omitempty"`
	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	Registrations []TestRegistration `json:"-"`
	Series        []Serie            `json:"series,omitempty"`
	Results       []Result           `json:"-"`
}

// TestRegistration is one swimmer registered for a test, kept in insertion order.
type TestRegistration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	TestID    uint `gorm:"uniqueIndex:idx_test_swimmer;not null"`
	SwimmerID uint `gorm:"uniqueIndex:idx_test_swimmer;not null"`
	Swimmer   Swimmer
}

// Serie is a heat: a group of registered swimmers racing together.
type Serie struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `json:"name"`
	TestID uint   `gorm:"index;not null" json:"test_id"`

	Results []Result `json:"results,omitempty"`
}

type Result struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SwimmerID uint    `gorm:"index" json:"swimmer_id"`
	Swimmer   Swimmer `json:"-"`
	SerieID   uint    `gorm:"index" json:"serie_id"`
	TestID    uint    `gorm:"index" json:"test_id"`

	Time     float64 `json:"time"`
	Position int     `json:"position"`
}
