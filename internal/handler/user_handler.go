package handler

import (
	"errors"
	"net/http"

	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/models"
	"github.com/kyliepost/levelup-server/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for account registration.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email" example:"mel@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"password123"`
	FirstName string `json:"first_name" binding:"required" example:"Mel"`
	LastName  string `json:"last_name" binding:"required" example:"Ody"`
	Bio       string `json:"bio" example:"Mostly eurogames."`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"mel@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ProfileResponse is the authenticated gamer's own profile, including the
// events they are currently signed up for.
type ProfileResponse struct {
	Gamer  ProfileGamerResponse `json:"gamer"`
	Events []EventResponse      `json:"events"`
}

type ProfileGamerResponse struct {
	ID        uint   `json:"id"`
	Bio       string `json:"bio"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new gamer
// @Description  Creates a user account with its gamer profile and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201 {object} map[string]string "{"token": "..."}"
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Email already registered"
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	// The account and its gamer profile must be created together. The
	// email's unique constraint is the duplicate guard; a pre-check would
	// race with concurrent registrations.
	tx := database.DB.Begin()

	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	gamer := models.Gamer{UserID: user.ID, Bio: input.Bio}
	if err := tx.Create(&gamer).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create gamer profile"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a gamer
// @Description  Authenticates a user with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200 {object} map[string]string "{"token": "..."}"
// @Failure      400 {object} ErrorResponse "Invalid input"
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Failure      404 {object} ErrorResponse "User not found"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// GetProfile godoc
// @Summary      Get current gamer's profile
// @Description  Retrieves the authenticated gamer's profile and the events they attend.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Gamer profile not found"
// @Router       /profile [get]
func GetProfile(c *gin.Context) {
	gamer, ok := currentGamer(c)
	if !ok {
		return
	}

	var events []models.Event
	err := database.DB.
		Joins("JOIN event_gamers ON event_gamers.event_id = events.id").
		Where("event_gamers.gamer_id = ?", gamer.ID).
		Preload("Game.GameType").
		Preload("Organizer.User").
		Preload("Attendees.User").
		Order("events.id").
		Find(&events).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load attended events"})
		return
	}

	eventResponses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		eventResponses = append(eventResponses, newEventResponse(event, nil))
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Gamer: ProfileGamerResponse{
			ID:        gamer.ID,
			Bio:       gamer.Bio,
			FirstName: gamer.User.FirstName,
			LastName:  gamer.User.LastName,
			Email:     gamer.User.Email,
		},
		Events: eventResponses,
	})
}

// currentGamer resolves the authenticated user's gamer profile. On failure it
// writes the error response and returns ok=false.
func currentGamer(c *gin.Context) (*models.Gamer, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var gamer models.Gamer
	if err := database.DB.Preload("User").Where("user_id = ?", userID.(uint)).First(&gamer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Gamer profile not found"})
		return nil, false
	}

	return &gamer, true
}
