package models

import "gorm.io/gorm"

// GameType represents a category of game (e.g. "Board game", "TTRPG").
type GameType struct {
	gorm.Model
	Label string `gorm:"size:100;unique;not null"`
}
