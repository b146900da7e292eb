package database

import (
	"log"
	"os"
	"time"

	"github.com/kyliepost/levelup-server/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         customLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established.")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully.")
}

// Migrate registers the attendance join model and runs auto-migrations.
// Shared with the test suites, which run it against in-memory databases.
func Migrate(db *gorm.DB) error {
	// The explicit join model carries the composite primary key and the
	// cascade constraints for the attendees association.
	if err := db.SetupJoinTable(&models.Event{}, "Attendees", &models.EventGamer{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Gamer{},
		&models.GameType{},
		&models.Game{},
		&models.Event{},
		&models.EventGamer{},
	)
}
