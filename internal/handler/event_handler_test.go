package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kyliepost/levelup-server/internal/auth"
	"github.com/kyliepost/levelup-server/internal/config"
	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/models"
	"github.com/kyliepost/levelup-server/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest wires an in-memory database and a router with the real
// middleware and routes, mirroring cmd/server/main.go.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()

	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", RegisterUser)
	authRoutes.POST("/login", LoginUser)

	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(auth.AuthMiddleware())
	profileRoutes.GET("", GetProfile)

	gameTypeRoutes := apiV1.Group("/gametypes")
	gameTypeRoutes.Use(auth.AuthMiddleware())
	gameTypeRoutes.GET("", GetGameTypes)
	gameTypeRoutes.GET("/:id", GetGameTypeByID)

	gameRoutes := apiV1.Group("/games")
	gameRoutes.Use(auth.AuthMiddleware())
	gameRoutes.GET("", GetGames)
	gameRoutes.GET("/:id", GetGameByID)
	gameRoutes.POST("", CreateGame)
	gameRoutes.PUT("/:id", UpdateGame)
	gameRoutes.DELETE("/:id", DeleteGame)

	eventRoutes := apiV1.Group("/events")
	eventRoutes.Use(auth.AuthMiddleware())
	eventRoutes.GET("", ListEvents)
	eventRoutes.GET("/:id", GetEvent)
	eventRoutes.POST("", CreateEvent)
	eventRoutes.PUT("/:id", UpdateEvent)
	eventRoutes.DELETE("/:id", DeleteEvent)
	eventRoutes.POST("/:id/signup", JoinEvent)
	eventRoutes.DELETE("/:id/signup", LeaveEvent)

	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	adminRoutes.POST("/gametypes", CreateGameType)
	adminRoutes.PUT("/gametypes/:id", UpdateGameType)
	adminRoutes.DELETE("/gametypes/:id", DeleteGameType)

	return router
}

// seedAccount creates a user with its gamer profile and returns the gamer
// and a valid bearer token.
func seedAccount(t *testing.T, email, firstName, lastName string) (models.Gamer, string) {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    firstName,
		LastName:     lastName,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	gamer := models.Gamer{UserID: user.ID}
	require.NoError(t, database.DB.Create(&gamer).Error)
	gamer.User = user

	return gamer, tokenFor(t, user.ID)
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func seedGameFixture(t *testing.T, gamer models.Gamer) models.Game {
	t.Helper()

	gameType := models.GameType{Label: "Strategy"}
	require.NoError(t, database.DB.Create(&gameType).Error)

	game := models.Game{
		GameTypeID:      gameType.ID,
		Title:           "Catan",
		Maker:           "Kosmos",
		GamerID:         gamer.ID,
		NumberOfPlayers: 4,
		SkillLevel:      2,
	}
	require.NoError(t, database.DB.Create(&game).Error)
	return game
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestEventLifecycle(t *testing.T) {
	router := setupTest(t)
	organizer, token := seedAccount(t, "organizer@example.com", "Olga", "Nizer")
	game := seedGameFixture(t, organizer)

	// Create
	resp := doRequest(router, http.MethodPost, "/api/v1/events", token, gin.H{
		"game_id":     game.ID,
		"description": "Friday night session",
		"date":        "2024-06-07",
		"time":        "19:30",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var created EventResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Friday night session", created.Description)
	assert.Equal(t, "Olga", created.Organizer.User.FirstName)
	assert.Equal(t, "Nizer", created.Organizer.User.LastName)
	assert.Empty(t, created.Attendees)
	assert.Nil(t, created.Joined, "joined is a list-only field")

	// Retrieve
	resp = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var fetched EventResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Catan", fetched.Game.Title)

	// Full replace
	resp = doRequest(router, http.MethodPut, fmt.Sprintf("/api/v1/events/%d", created.ID), token, gin.H{
		"game_id":     game.ID,
		"description": "Rescheduled session",
		"date":        "2024-06-14",
		"time":        "20:00",
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	// Delete
	resp = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/v1/events/%d", created.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/events/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCreateEventRejectsBadInput(t *testing.T) {
	router := setupTest(t)
	organizer, token := seedAccount(t, "organizer@example.com", "Olga", "Nizer")
	game := seedGameFixture(t, organizer)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing description", gin.H{"game_id": game.ID, "date": "2024-06-07", "time": "19:30"}},
		{"unparseable date", gin.H{"game_id": game.ID, "description": "x", "date": "someday", "time": "19:30"}},
		{"unparseable time", gin.H{"game_id": game.ID, "description": "x", "date": "2024-06-07", "time": "quarter past"}},
		{"unknown game", gin.H{"game_id": 9999, "description": "x", "date": "2024-06-07", "time": "19:30"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(router, http.MethodPost, "/api/v1/events", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestSignupAndJoinedFlag(t *testing.T) {
	router := setupTest(t)
	organizer, organizerToken := seedAccount(t, "organizer@example.com", "Olga", "Nizer")
	_, viewerToken := seedAccount(t, "viewer@example.com", "Vera", "Viewer")
	game := seedGameFixture(t, organizer)

	var eventIDs []uint
	for i := 0; i < 3; i++ {
		resp := doRequest(router, http.MethodPost, "/api/v1/events", organizerToken, gin.H{
			"game_id":     game.ID,
			"description": fmt.Sprintf("Session %d", i+1),
			"date":        "2024-06-07",
			"time":        "19:30",
		})
		require.Equal(t, http.StatusCreated, resp.Code)

		var created EventResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
		eventIDs = append(eventIDs, created.ID)
	}

	// Join the middle event twice; the second join must also succeed.
	signupPath := fmt.Sprintf("/api/v1/events/%d/signup", eventIDs[1])
	resp := doRequest(router, http.MethodPost, signupPath, viewerToken, nil)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = doRequest(router, http.MethodPost, signupPath, viewerToken, nil)
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doRequest(router, http.MethodGet, "/api/v1/events", viewerToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listed []EventResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	for _, event := range listed {
		require.NotNil(t, event.Joined)
		assert.Equal(t, event.ID == eventIDs[1], *event.Joined, "event %d", event.ID)
		if event.ID == eventIDs[1] {
			require.Len(t, event.Attendees, 1, "duplicate join must not duplicate attendance")
		}
	}

	// Leave, then leave again: both are successful no-ops.
	resp = doRequest(router, http.MethodDelete, signupPath, viewerToken, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)
	resp = doRequest(router, http.MethodDelete, signupPath, viewerToken, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doRequest(router, http.MethodGet, "/api/v1/events", viewerToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	for _, event := range listed {
		require.NotNil(t, event.Joined)
		assert.False(t, *event.Joined)
	}
}

func TestSignupOnMissingEventIsClientError(t *testing.T) {
	router := setupTest(t)
	_, token := seedAccount(t, "viewer@example.com", "Vera", "Viewer")

	resp := doRequest(router, http.MethodPost, "/api/v1/events/9999/signup", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "event does not exist", body.Error)

	resp = doRequest(router, http.MethodDelete, "/api/v1/events/9999/signup", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListEventsGameFilter(t *testing.T) {
	router := setupTest(t)
	organizer, token := seedAccount(t, "organizer@example.com", "Olga", "Nizer")
	catan := seedGameFixture(t, organizer)

	chess := models.Game{
		GameTypeID:      catan.GameTypeID,
		Title:           "Chess",
		Maker:           "Public domain",
		GamerID:         organizer.ID,
		NumberOfPlayers: 2,
		SkillLevel:      4,
	}
	require.NoError(t, database.DB.Create(&chess).Error)

	for _, gameID := range []uint{catan.ID, catan.ID, chess.ID} {
		resp := doRequest(router, http.MethodPost, "/api/v1/events", token, gin.H{
			"game_id":     gameID,
			"description": "Session",
			"date":        "2024-06-07",
			"time":        "19:30",
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := doRequest(router, http.MethodGet, fmt.Sprintf("/api/v1/events?game_id=%d", catan.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listed []EventResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	for _, event := range listed {
		assert.Equal(t, catan.ID, event.Game.ID)
	}

	resp = doRequest(router, http.MethodGet, "/api/v1/events?game_id=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestEventRoutesRequireAuth(t *testing.T) {
	router := setupTest(t)

	resp := doRequest(router, http.MethodGet, "/api/v1/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(router, http.MethodPost, "/api/v1/events/1/signup", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	router := setupTest(t)

	resp := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "mel@example.com",
		"password":   "password123",
		"first_name": "Mel",
		"last_name":  "Ody",
		"bio":        "Mostly eurogames.",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// Duplicate registration is a conflict.
	resp = doRequest(router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "mel@example.com",
		"password":   "password123",
		"first_name": "Mel",
		"last_name":  "Ody",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "mel@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginBody))
	require.NotEmpty(t, loginBody.Token)

	resp = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "mel@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doRequest(router, http.MethodGet, "/api/v1/profile", loginBody.Token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profile))
	assert.Equal(t, "Mel", profile.Gamer.FirstName)
	assert.Equal(t, "Mostly eurogames.", profile.Gamer.Bio)
	assert.Empty(t, profile.Events)
}
