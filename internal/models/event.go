package models

import "gorm.io/gorm"

// Event is a scheduled session of a game, organized by one gamer and
// attended by any number of others. The organizer is not implicitly an
// attendee; attendance is tracked only through the event_gamers relation.
type Event struct {
	gorm.Model
	GameID      uint   `gorm:"not null"`
	Description string `gorm:"not null"`
	Date        string `gorm:"size:10;not null"` // YYYY-MM-DD
	Time        string `gorm:"size:8;not null"`  // HH:MM
	OrganizerID uint   `gorm:"not null"`

	Game      Game    `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Organizer Gamer   `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Attendees []Gamer `gorm:"many2many:event_gamers;"`
}
