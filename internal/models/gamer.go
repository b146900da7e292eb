package models

import "gorm.io/gorm"

// Gamer is the player profile attached one-to-one to a User account.
// Games, events and attendance all reference the profile, never the account.
type Gamer struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null"`
	Bio    string

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
