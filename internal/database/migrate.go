package database

import (
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// Migrate applies the schema for every model, including the composite
// unique indexes that back the conflict semantics of favorites, carts,
// follows and the ingredient catalog.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Follow{},
	)
}
