// Package service implements the event membership core: event CRUD,
// join/leave semantics and the viewer-relative joined flag. Handlers only
// translate between HTTP and the operations defined here.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kyliepost/levelup-server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors handlers translate into client-error responses.
var (
	ErrEventNotFound = errors.New("event does not exist")
	ErrGameNotFound  = errors.New("game does not exist")
	ErrGamerNotFound = errors.New("gamer profile does not exist")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// EventInput carries the caller-supplied event fields. Update is a full
// replace: every field is written, nothing is preserved from prior state.
type EventInput struct {
	GameID      uint
	Description string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM or HH:MM:SS
}

// EventService owns event entities and their attendee relation.
type EventService struct {
	db *gorm.DB
}

// NewEventService constructs an EventService over the given database handle.
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Create inserts a new event organized by the caller's gamer profile.
// The attendee set starts empty; organizing does not imply attending.
func (s *EventService) Create(organizerUserID uint, in EventInput) (*models.Event, error) {
	gamer, err := s.resolveGamer(organizerUserID)
	if err != nil {
		return nil, err
	}

	normalized, err := validateInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.checkGameExists(normalized.GameID); err != nil {
		return nil, err
	}

	event := models.Event{
		GameID:      normalized.GameID,
		Description: normalized.Description,
		Date:        normalized.Date,
		Time:        normalized.Time,
		OrganizerID: gamer.ID,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	return s.Get(event.ID)
}

// Get returns an event with its game, organizer and attendees resolved.
func (s *EventService) Get(eventID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.
		Preload("Game.GameType").
		Preload("Organizer.User").
		Preload("Attendees.User").
		First(&event, eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update replaces all mutable fields of an event in place. The caller's
// gamer profile becomes the organizer, matching the create semantics.
func (s *EventService) Update(eventID uint, organizerUserID uint, in EventInput) error {
	gamer, err := s.resolveGamer(organizerUserID)
	if err != nil {
		return err
	}

	normalized, err := validateInput(in)
	if err != nil {
		return err
	}

	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if err := s.checkGameExists(normalized.GameID); err != nil {
		return err
	}

	return s.db.Model(&event).Updates(map[string]interface{}{
		"game_id":      normalized.GameID,
		"description":  normalized.Description,
		"date":         normalized.Date,
		"time":         normalized.Time,
		"organizer_id": gamer.ID,
	}).Error
}

// Delete removes an event and, with it, every attendance row referencing it.
func (s *EventService) Delete(eventID uint) error {
	result := s.db.Select("Attendees").Delete(&models.Event{Model: gorm.Model{ID: eventID}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// List returns all events, optionally restricted to one game, together with
// the set of event IDs the viewer currently attends. The membership set is
// fetched with a single query over the join table rather than a per-event
// lookup during response construction.
func (s *EventService) List(viewerUserID uint, gameID uint) ([]models.Event, map[uint]bool, error) {
	gamer, err := s.resolveGamer(viewerUserID)
	if err != nil {
		return nil, nil, err
	}

	query := s.db.
		Preload("Game.GameType").
		Preload("Organizer.User").
		Preload("Attendees.User")
	if gameID != 0 {
		query = query.Where("game_id = ?", gameID)
	}

	var events []models.Event
	if err := query.Order("id").Find(&events).Error; err != nil {
		return nil, nil, err
	}

	var attendedIDs []uint
	if err := s.db.Model(&models.EventGamer{}).
		Where("gamer_id = ?", gamer.ID).
		Pluck("event_id", &attendedIDs).Error; err != nil {
		return nil, nil, err
	}

	joined := make(map[uint]bool, len(attendedIDs))
	for _, id := range attendedIDs {
		joined[id] = true
	}

	return events, joined, nil
}

// SetAttendance adds or removes the viewer's gamer profile from the event's
// attendee set. Both directions are idempotent: a duplicate join is absorbed
// by the join table's primary key, a leave of a non-member deletes nothing.
func (s *EventService) SetAttendance(viewerUserID uint, eventID uint, attending bool) error {
	gamer, err := s.resolveGamer(viewerUserID)
	if err != nil {
		return err
	}

	var event models.Event
	if err := s.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if attending {
		row := models.EventGamer{EventID: event.ID, GamerID: gamer.ID}
		return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	}

	return s.db.
		Where("event_id = ? AND gamer_id = ?", event.ID, gamer.ID).
		Delete(&models.EventGamer{}).Error
}

func (s *EventService) resolveGamer(userID uint) (*models.Gamer, error) {
	var gamer models.Gamer
	err := s.db.Where("user_id = ?", userID).First(&gamer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGamerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gamer, nil
}

func (s *EventService) checkGameExists(gameID uint) error {
	var game models.Game
	err := s.db.First(&game, gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGameNotFound
	}
	return err
}

// validateInput checks the free-form fields and normalizes the date to
// YYYY-MM-DD and the time to HH:MM, so equal values store identically.
func validateInput(in EventInput) (EventInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return in, &ValidationError{Field: "description", Reason: "must not be empty"}
	}

	parsedDate, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return in, &ValidationError{Field: "date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	in.Date = parsedDate.Format("2006-01-02")

	parsed, err := time.Parse("15:04", in.Time)
	if err != nil {
		parsed, err = time.Parse("15:04:05", in.Time)
	}
	if err != nil {
		return in, &ValidationError{Field: "time", Reason: "must be a valid HH:MM time"}
	}
	in.Time = parsed.Format("15:04")

	return in, nil
}
