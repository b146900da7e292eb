package handler

import (
	"net/http"
	"strconv"

	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/models"

	"github.com/gin-gonic/gin"
)

type GameTypeInput struct {
	Label string `json:"label" binding:"required"`
}

type GameTypeResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

func newGameTypeResponse(gameType models.GameType) GameTypeResponse {
	return GameTypeResponse{
		ID:    gameType.ID,
		Label: gameType.Label,
	}
}

// GetGameTypes godoc
// @Summary      Get all game types
// @Description  Retrieves a list of all available game types.
// @Tags         gametypes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} GameTypeResponse
// @Router       /gametypes [get]
func GetGameTypes(c *gin.Context) {
	var gameTypes []models.GameType
	database.DB.Order("id").Find(&gameTypes)

	response := make([]GameTypeResponse, 0, len(gameTypes))
	for _, gameType := range gameTypes {
		response = append(response, newGameTypeResponse(gameType))
	}
	c.JSON(http.StatusOK, response)
}

// GetGameTypeByID godoc
// @Summary      Get a game type by ID
// @Tags         gametypes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game Type ID"
// @Success      200 {object} GameTypeResponse
// @Failure      404 {object} ErrorResponse "Game type not found"
// @Router       /gametypes/{id} [get]
func GetGameTypeByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var gameType models.GameType
	if err := database.DB.First(&gameType, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game type not found"})
		return
	}

	c.JSON(http.StatusOK, newGameTypeResponse(gameType))
}

// CreateGameType godoc
// @Summary      Create a new game type
// @Description  Creates a new game type for games.
// @Tags         admin-gametypes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameTypeInput true "Game Type Info"
// @Success      201 {object} GameTypeResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      409 {object} ErrorResponse "Game type already exists"
// @Router       /admin/gametypes [post]
func CreateGameType(c *gin.Context) {
	var input GameTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameType := models.GameType{Label: input.Label}
	if err := database.DB.Create(&gameType).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Game type already exists or another error occurred"})
		return
	}

	c.JSON(http.StatusCreated, newGameTypeResponse(gameType))
}

// UpdateGameType godoc
// @Summary      Update a game type
// @Description  Updates the label of an existing game type.
// @Tags         admin-gametypes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int           true "Game Type ID"
// @Param        input body GameTypeInput true "New Game Type Info"
// @Success      200 {object} GameTypeResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game type not found"
// @Router       /admin/gametypes/{id} [put]
func UpdateGameType(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input GameTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var gameType models.GameType
	if err := database.DB.First(&gameType, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game type not found"})
		return
	}

	database.DB.Model(&gameType).Update("label", input.Label)
	c.JSON(http.StatusOK, newGameTypeResponse(gameType))
}

// DeleteGameType godoc
// @Summary      Delete a game type
// @Description  Deletes an existing game type.
// @Tags         admin-gametypes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Game Type ID"
// @Success      200 {object} map[string]string "{"message": "Game type deleted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Game type not found"
// @Router       /admin/gametypes/{id} [delete]
func DeleteGameType(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	result := database.DB.Delete(&models.GameType{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game type not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game type deleted"})
}
