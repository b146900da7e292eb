package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/models"
	"github.com/kyliepost/levelup-server/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type EventInput struct {
	GameID      uint   `json:"game_id" binding:"required"`
	Description string `json:"description" binding:"required"`
	Date        string `json:"date" binding:"required" example:"2024-06-01"`
	Time        string `json:"time" binding:"required" example:"19:30"`
}

// EventUserResponse exposes only the organizer's displayable identity,
// never credentials.
type EventUserResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type EventGamerResponse struct {
	ID   uint              `json:"id"`
	User EventUserResponse `json:"user"`
}

type EventResponse struct {
	ID          uint                 `json:"id"`
	Game        GameResponse         `json:"game"`
	Description string               `json:"description"`
	Date        string               `json:"date"`
	Time        string               `json:"time"`
	Organizer   EventGamerResponse   `json:"organizer"`
	Attendees   []EventGamerResponse `json:"attendees"`
	Joined      *bool                `json:"joined,omitempty"`
}

func newEventGamerResponse(gamer models.Gamer) EventGamerResponse {
	return EventGamerResponse{
		ID: gamer.ID,
		User: EventUserResponse{
			FirstName: gamer.User.FirstName,
			LastName:  gamer.User.LastName,
		},
	}
}

func newEventResponse(event models.Event, joined *bool) EventResponse {
	attendees := make([]EventGamerResponse, 0, len(event.Attendees))
	for _, attendee := range event.Attendees {
		attendees = append(attendees, newEventGamerResponse(attendee))
	}

	return EventResponse{
		ID:          event.ID,
		Game:        newGameResponse(event.Game),
		Description: event.Description,
		Date:        event.Date,
		Time:        event.Time,
		Organizer:   newEventGamerResponse(event.Organizer),
		Attendees:   attendees,
		Joined:      joined,
	}
}

// endregion

func eventService() *service.EventService {
	return service.NewEventService(database.DB)
}

func toServiceInput(in EventInput) service.EventInput {
	return service.EventInput{
		GameID:      in.GameID,
		Description: in.Description,
		Date:        in.Date,
		Time:        in.Time,
	}
}

// ListEvents godoc
// @Summary      List events
// @Description  Lists all events, optionally filtered by game, with a per-viewer joined flag.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        game_id query int false "Filter by Game ID"
// @Success      200 {array} EventResponse
// @Failure      401 {object} ErrorResponse
// @Router       /events [get]
func ListEvents(c *gin.Context) {
	userID, _ := c.Get("userID")

	var gameID uint
	if raw := c.Query("game_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game_id filter"})
			return
		}
		gameID = uint(parsed)
	}

	events, joinedSet, err := eventService().List(userID.(uint), gameID)
	if err != nil {
		if errors.Is(err, service.ErrGamerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list events"})
		return
	}

	response := make([]EventResponse, 0, len(events))
	for _, event := range events {
		joined := joinedSet[event.ID]
		response = append(response, newEventResponse(event, &joined))
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent godoc
// @Summary      Get an event by ID
// @Description  Gets full details for a single event, including organizer and attendees.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      200 {object} EventResponse
// @Failure      404 {object} ErrorResponse "Event not found"
// @Router       /events/{id} [get]
func GetEvent(c *gin.Context) {
	eventID, _ := strconv.Atoi(c.Param("id"))

	event, err := eventService().Get(uint(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		return
	}

	c.JSON(http.StatusOK, newEventResponse(*event, nil))
}

// CreateEvent godoc
// @Summary      Create a new event
// @Description  Creates a new event organized by the authenticated gamer.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EventInput true "Event Info"
// @Success      201 {object} EventResponse
// @Failure      400 {object} ErrorResponse "Malformed input or unknown game"
// @Router       /events [post]
func CreateEvent(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := eventService().Create(userID.(uint), toServiceInput(input))
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr), errors.Is(err, service.ErrGameNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGamerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		}
		return
	}

	c.JSON(http.StatusCreated, newEventResponse(*event, nil))
}

// UpdateEvent godoc
// @Summary      Update an event
// @Description  Replaces all mutable fields of an event. Callers must resend the complete event.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int        true "Event ID"
// @Param        input body EventInput true "New Event Info"
// @Success      204
// @Failure      400 {object} ErrorResponse "Malformed input"
// @Failure      404 {object} ErrorResponse "Event or game not found"
// @Router       /events/{id} [put]
func UpdateEvent(c *gin.Context) {
	userID, _ := c.Get("userID")
	eventID, _ := strconv.Atoi(c.Param("id"))

	var input EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := eventService().Update(uint(eventID), userID.(uint), toServiceInput(input))
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEventNotFound),
			errors.Is(err, service.ErrGameNotFound),
			errors.Is(err, service.ErrGamerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Description  Deletes an event and all attendance rows referencing it.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      204
// @Failure      404 {object} ErrorResponse "Event not found"
// @Failure      500 {object} ErrorResponse
// @Router       /events/{id} [delete]
func DeleteEvent(c *gin.Context) {
	eventID, _ := strconv.Atoi(c.Param("id"))

	if err := eventService().Delete(uint(eventID)); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.Status(http.StatusNoContent)
}

// JoinEvent godoc
// @Summary      Sign up for an event
// @Description  Adds the authenticated gamer to the event's attendee set. Joining twice is a no-op.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      201 {object} map[string]string "{"message": "Signed up for event"}"
// @Failure      400 {object} ErrorResponse "Event does not exist"
// @Router       /events/{id}/signup [post]
func JoinEvent(c *gin.Context) {
	userID, _ := c.Get("userID")
	eventID, _ := strconv.Atoi(c.Param("id"))

	if err := eventService().SetAttendance(userID.(uint), uint(eventID), true); err != nil {
		signupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signed up for event"})
}

// LeaveEvent godoc
// @Summary      Withdraw from an event
// @Description  Removes the authenticated gamer from the event's attendee set. Leaving when not a member is a no-op.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Event ID"
// @Success      204
// @Failure      400 {object} ErrorResponse "Event does not exist"
// @Router       /events/{id}/signup [delete]
func LeaveEvent(c *gin.Context) {
	userID, _ := c.Get("userID")
	eventID, _ := strconv.Atoi(c.Param("id"))

	if err := eventService().SetAttendance(userID.(uint), uint(eventID), false); err != nil {
		signupError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// signupError reports a missing event or gamer as a client error; only
// unexpected storage failures surface as 500s.
func signupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEventNotFound) || errors.Is(err, service.ErrGamerNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
}
