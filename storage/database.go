package storage

import (
	"homestays-server/models"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
		&models.Payment{},
		&models.Review{},
		&models.Message{},
	)
}

// secondaryIndexes are the composite indexes the single-column gorm tags
// don't cover. Portable DDL so the sqlite test database accepts them too.
var secondaryIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_bookings_property_status ON bookings (property_id, status)",
	"CREATE INDEX IF NOT EXISTS idx_bookings_guest_status ON bookings (guest_id, status)",
	"CREATE INDEX IF NOT EXISTS idx_properties_location_price ON properties (location, price_per_night)",
	"CREATE INDEX IF NOT EXISTS idx_messages_participants ON messages (sender_id, recipient_id)",
	"CREATE INDEX IF NOT EXISTS idx_reviews_property_rating ON reviews (property_id, rating)",
}

func EnsureIndexes(db *gorm.DB) error {
	for _, stmt := range secondaryIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	if err := performMigrations(db); err != nil {
		log.Panic("error running migrations: " + err.Error())
	}
	if err := EnsureIndexes(db); err != nil {
		log.Panic("error creating indexes: " + err.Error())
	}
	if os.Getenv("SEED_DB") == "true" {
		SeedDB(db)
	}
	return db
}
