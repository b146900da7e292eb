package handler

import (
	"net/http"
	"strconv"

	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type GameInput struct {
	GameTypeID      uint   `json:"game_type_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Maker           string `json:"maker" binding:"required"`
	NumberOfPlayers int    `json:"number_of_players" binding:"required,min=1"`
	SkillLevel      int    `json:"skill_level" binding:"required,min=1,max=5"`
}

type GameResponse struct {
	ID              uint             `json:"id"`
	Title           string           `json:"title"`
	Maker           string           `json:"maker"`
	GameType        GameTypeResponse `json:"game_type"`
	GamerID         uint             `json:"gamer_id"`
	NumberOfPlayers int              `json:"number_of_players"`
	SkillLevel      int              `json:"skill_level"`
}

func newGameResponse(game models.Game) GameResponse {
	return GameResponse{
		ID:              game.ID,
		Title:           game.Title,
		Maker:           game.Maker,
		GameType:        newGameTypeResponse(game.GameType),
		GamerID:         game.GamerID,
		NumberOfPlayers: game.NumberOfPlayers,
		SkillLevel:      game.SkillLevel,
	}
}

// endregion

// GetGames godoc
// @Summary      Get a list of games
// @Description  Retrieves a paginated list of games, optionally filtered by game type.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        game_type_id query int false "Filter by Game Type ID"
// @Param        page         query int false "Page number" default(1)
// @Param        limit        query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Router       /games [get]
func GetGames(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	query := database.DB.Model(&models.Game{}).Preload("GameType").Order("id")
	if gameTypeID := c.Query("game_type_id"); gameTypeID != "" {
		query = query.Where("game_type_id = ?", gameTypeID)
	}

	paginated, err := Paginate[models.Game](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve games"})
		return
	}

	response := make([]GameResponse, 0, len(paginated.Data))
	for _, game := range paginated.Data {
		response = append(response, newGameResponse(game))
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(response, paginated.Meta.TotalItems, page, limit))
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Description  Retrieves details for a single game, including its game type.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func GetGameByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.Preload("GameType").First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, newGameResponse(game))
}

// CreateGame godoc
// @Summary      Register a new game
// @Description  Creates a new game owned by the authenticated gamer.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201 {object} GameResponse
// @Failure      400 {object} ErrorResponse "Malformed input or unknown game type"
// @Router       /games [post]
func CreateGame(c *gin.Context) {
	gamer, ok := currentGamer(c)
	if !ok {
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var gameType models.GameType
	if err := database.DB.First(&gameType, input.GameTypeID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game type not found"})
		return
	}

	game := models.Game{
		GameTypeID:      input.GameTypeID,
		Title:           input.Title,
		Maker:           input.Maker,
		GamerID:         gamer.ID,
		NumberOfPlayers: input.NumberOfPlayers,
		SkillLevel:      input.SkillLevel,
	}
	if err := database.DB.Create(&game).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create game"})
		return
	}

	database.DB.Preload("GameType").First(&game, game.ID)
	c.JSON(http.StatusCreated, newGameResponse(game))
}

// UpdateGame godoc
// @Summary      Update a game (owner only)
// @Description  Updates a game's details. Only the gamer who registered it can edit it.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int       true "Game ID"
// @Param        input body GameInput true "New Game Info"
// @Success      200 {object} GameResponse
// @Failure      403 {object} ErrorResponse "Only the owner can update the game"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [put]
func UpdateGame(c *gin.Context) {
	gamer, ok := currentGamer(c)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if game.GamerID != gamer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can update the game"})
		return
	}

	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var gameType models.GameType
	if err := database.DB.First(&gameType, input.GameTypeID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Game type not found"})
		return
	}

	game.GameTypeID = input.GameTypeID
	game.Title = input.Title
	game.Maker = input.Maker
	game.NumberOfPlayers = input.NumberOfPlayers
	game.SkillLevel = input.SkillLevel

	database.DB.Save(&game)

	database.DB.Preload("GameType").First(&game, game.ID)
	c.JSON(http.StatusOK, newGameResponse(game))
}

// DeleteGame godoc
// @Summary      Delete a game (owner only)
// @Description  Deletes a game. Events referencing it are removed by cascade.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Only the owner can delete the game"
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [delete]
func DeleteGame(c *gin.Context) {
	gamer, ok := currentGamer(c)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(c.Param("id"))

	var game models.Game
	if err := database.DB.First(&game, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if game.GamerID != gamer.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete the game"})
		return
	}

	// Events referencing the game, and their attendance rows, must go with
	// it. The soft delete below never reaches the database-level cascade,
	// so the dependents are removed explicitly in the same transaction.
	tx := database.DB.Begin()

	var events []models.Event
	if err := tx.Where("game_id = ?", game.ID).Find(&events).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}
	for _, event := range events {
		if err := tx.Select("Attendees").Delete(&event).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
			return
		}
	}

	if err := tx.Delete(&game).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}
