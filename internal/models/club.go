package models

import "time"

type Club struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"not null;index" json:"name"`
	Town string `json:"town"`
	Logo []byte `json:"-"`

	Swimmers  []Swimmer  `json:"swimmers,omitempty"`
	BestTimes []BestTime `json:"best_times,omitempty"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	YearsMin int    `json:"years_min"`
	YearsMax int    `json:"years_max"`
}

// Contains reports whether age falls inside the inclusive [YearsMin, YearsMax] range.
func (c Category) Contains(age int) bool {
	return c.YearsMin <= age && age <= c.YearsMax
}

type Style struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string    `gorm:"not null" json:"name"`
	BestSwimmers []Swimmer `gorm:"many2many:style_best_swimmers;" json:"best_swimmers,omitempty"`
}

type BestTime struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SwimmerID *uint   `gorm:"index" json:"swimmer_id"`
	ClubID    *uint   `gorm:"index" json:"club_id"`
	StyleID   *uint   `gorm:"index" json:"style_id"`
	Time      float64 `json:"time"`

	Style *Style `json:"style,omitempty"`
}
