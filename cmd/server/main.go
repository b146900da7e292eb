package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/kyliepost/levelup-server/internal/auth"
	"github.com/kyliepost/levelup-server/internal/config"
	"github.com/kyliepost/levelup-server/internal/database"
	"github.com/kyliepost/levelup-server/internal/handler"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Level Up API
// @version         1.0
// @description     Event signup API for gamers: register games, organize events, sign up to attend.
// @host            localhost:8000
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Profile route (protected)
		profileRoutes := apiV1.Group("/profile")
		profileRoutes.Use(auth.AuthMiddleware())
		{
			profileRoutes.GET("", handler.GetProfile)
		}

		// Game type routes (protected, read-only)
		gameTypeRoutes := apiV1.Group("/gametypes")
		gameTypeRoutes.Use(auth.AuthMiddleware())
		{
			gameTypeRoutes.GET("", handler.GetGameTypes)
			gameTypeRoutes.GET("/:id", handler.GetGameTypeByID)
		}

		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("", handler.GetGames)
			gameRoutes.GET("/:id", handler.GetGameByID)
			gameRoutes.POST("", handler.CreateGame)
			gameRoutes.PUT("/:id", handler.UpdateGame)
			gameRoutes.DELETE("/:id", handler.DeleteGame)
		}

		// Event routes (protected)
		eventRoutes := apiV1.Group("/events")
		eventRoutes.Use(auth.AuthMiddleware())
		{
			eventRoutes.GET("", handler.ListEvents)
			eventRoutes.GET("/:id", handler.GetEvent)
			eventRoutes.POST("", handler.CreateEvent)
			eventRoutes.PUT("/:id", handler.UpdateEvent)
			eventRoutes.DELETE("/:id", handler.DeleteEvent)
			eventRoutes.POST("/:id/signup", handler.JoinEvent)
			eventRoutes.DELETE("/:id/signup", handler.LeaveEvent)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Game types CRUD
			gameTypes := adminRoutes.Group("/gametypes")
			{
				gameTypes.POST("", handler.CreateGameType)
				gameTypes.PUT("/:id", handler.UpdateGameType)
				gameTypes.DELETE("/:id", handler.DeleteGameType)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddress)
	log.Fatal(router.Run(config.AppConfig.ServerAddress))
}
