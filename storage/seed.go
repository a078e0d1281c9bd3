package storage

import (
	"homestays-server/models"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDB inserts a small demo dataset. Skipped when users already exist.
func SeedDB(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	host := models.User{
		FirstName: "Aicha",
		LastName:  "Mint",
		Email:     "aicha@example.com",
		Password:  string(hash),
		Role:      "host",
	}
	guest := models.User{
		FirstName: "Moussa",
		LastName:  "Diallo",
		Email:     "moussa@example.com",
		Password:  string(hash),
		Role:      "guest",
	}
	if err := db.Create(&host).Error; err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := db.Create(&guest).Error; err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	properties := []models.Property{
		{
			HostID:        host.ID,
			Name:          "Riad by the fishing port",
			Description:   "Two bedrooms, five minutes from the Port de Peche.",
			Location:      "Nouakchott",
			PricePerNight: 120,
			Amenities:     datatypes.JSON([]byte(`["wifi","kitchen"]`)),
		},
		{
			HostID:        host.ID,
			Name:          "Dune-view studio",
			Description:   "Compact studio facing the Adrar dunes.",
			Location:      "Atar",
			PricePerNight: 75,
			Amenities:     datatypes.JSON([]byte(`["wifi","parking"]`)),
		},
	}
	if err := db.Create(&properties).Error; err != nil {
		log.Fatalf("Failed to seed properties: %v", err)
	}

	booking := models.Booking{
		PropertyID: properties[0].ID,
		GuestID:    guest.ID,
		StartDate:  time.Now().AddDate(0, 0, 7),
		EndDate:    time.Now().AddDate(0, 0, 10),
		TotalPrice: 360,
		Status:     "confirmed",
	}
	if err := db.Create(&booking).Error; err != nil {
		log.Fatalf("Failed to seed bookings: %v", err)
	}

	log.Printf("Seeded %d users, %d properties, 1 booking\n", 2, len(properties))
}
