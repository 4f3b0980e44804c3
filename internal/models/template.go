package models

import "time"

// Template is an SMS message template. Content may reference the placeholder
// vocabulary {name}, {balance}, {amount}.
type Template struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Content   string `gorm:"size:1000;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
