package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/types"
)

type testEnv struct {
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	auth := service.NewAuthService(db, "test-secret")
	images := service.NewImageService(nil, t.TempDir())
	recipes := service.NewRecipeService(db, images)
	relations := service.NewRelationService(db)
	shoppingList := service.NewShoppingListService(db)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	NewAuthHandler(auth, relations).RegisterRoutes(v1)
	NewRecipeHandler(auth, recipes, relations, shoppingList).RegisterRoutes(v1)
	NewCatalogHandler(auth, service.NewCatalogService(db)).RegisterRoutes(v1)

	return &testEnv{db: db, auth: auth, router: engine}
}

// createUserAndToken registers a user through the auth service and returns
// the persisted row together with a valid bearer token.
func (env *testEnv) createUserAndToken(t *testing.T, username string, admin bool) (*models.User, string) {
	t.Helper()

	token, err := env.auth.Register(&types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	require.NoError(t, err)

	var user models.User
	require.NoError(t, env.db.Where("username = ?", username).First(&user).Error)
	if admin {
		require.NoError(t, env.db.Model(&user).Update("is_superuser", true).Error)
	}
	return &user, token
}

func (env *testEnv) seedTag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: name, Color: "#49B64E"}
	require.NoError(t, env.db.Create(&tag).Error)
	return &tag
}

func (env *testEnv) seedIngredient(t *testing.T, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, env.db.Create(&ingredient).Error)
	return &ingredient
}

func (env *testEnv) seedRecipe(t *testing.T, author *models.User, name string, lines map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "seeded",
		CookingTime: 30,
	}
	for ingredient, amount := range lines {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: ingredient.ID,
			Amount:       amount,
		})
	}
	require.NoError(t, env.db.Create(&recipe).Error)
	return &recipe
}

// do performs a request against the test router. A nil body sends no
// payload; otherwise body is JSON-encoded. An empty token leaves the
// request anonymous.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
