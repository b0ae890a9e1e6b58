package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Slug: name, Color: "#49B64E"}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

type testLine struct {
	ingredient *models.Ingredient
	amount     int
}

func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines ...testLine) *models.Recipe {
	t.Helper()

	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "test recipe",
		CookingTime: 30,
	}
	for _, line := range lines {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: line.ingredient.ID,
			Amount:       line.amount,
		})
	}
	require.NoError(t, db.Create(&recipe).Error)
	return &recipe
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
