package models

import "gorm.io/gorm"

// Game represents a playable title registered by a gamer.
type Game struct {
	gorm.Model
	GameTypeID      uint   `gorm:"not null"`
	Title           string `gorm:"size:55;not null"`
	Maker           string `gorm:"size:55;not null"`
	GamerID         uint   `gorm:"not null"`
	NumberOfPlayers int    `gorm:"not null"`
	SkillLevel      int    `gorm:"not null"`

	GameType GameType `gorm:"foreignKey:GameTypeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Gamer    Gamer    `gorm:"foreignKey:GamerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
