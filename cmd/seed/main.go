package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/models"
)

// Seeds the catalog tables and an initial admin account. Safe to run
// repeatedly: existing rows are left untouched.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	tags := []models.Tag{
		{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
		{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
		{Name: "Dinner", Slug: "dinner", Color: "#8775D2"},
	}
	for _, tag := range tags {
		if err := db.Where("slug = ?", tag.Slug).FirstOrCreate(&tag).Error; err != nil {
			log.Fatalf("Failed to seed tag %q: %v", tag.Slug, err)
		}
	}

	ingredients := []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "eggs", MeasurementUnit: "pcs"},
		{Name: "butter", MeasurementUnit: "g"},
		{Name: "olive oil", MeasurementUnit: "ml"},
	}
	for _, ingredient := range ingredients {
		err := db.Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
			FirstOrCreate(&ingredient).Error
		if err != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", ingredient.Name, err)
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account")
		log.Println("Seeding complete")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Email:        adminEmail,
		Username:     "admin",
		FirstName:    "Site",
		LastName:     "Admin",
		PasswordHash: string(hash),
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := db.Where("email = ?", adminEmail).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seeding complete")
}
