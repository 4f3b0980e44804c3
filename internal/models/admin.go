package models

import "time"

type Admin struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Set by the forgot-password flow, cleared on use.
	ResetToken     *string `gorm:"size:64;index"`
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
