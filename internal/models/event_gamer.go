package models

import "time"

// EventGamer is the attendance row pairing a gamer with an event. It is
// registered as the join table for Event.Attendees. The composite primary
// key makes the (event, gamer) pair unique, so an insert with ON CONFLICT
// DO NOTHING is all Join needs to stay idempotent.
type EventGamer struct {
	EventID   uint `gorm:"primaryKey"`
	GamerID   uint `gorm:"primaryKey"`
	CreatedAt time.Time
}
