package types

import (
	"github.com/google/uuid"

	"github.com/recipebox/backend/internal/models"
)

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func NewUserResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// IngredientLine is one ingredient line embedded in a recipe representation.
type IngredientLine struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeResponse is the full recipe representation. The membership flags
// are computed relative to the requesting identity and are false for
// anonymous requesters.
type RecipeResponse struct {
	ID               uuid.UUID        `json:"id"`
	Author           UserResponse     `json:"author"`
	Tags             []models.Tag     `json:"tags"`
	Ingredients      []IngredientLine `json:"ingredients"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int              `json:"cooking_time"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
}

func NewRecipeResponse(r *models.Recipe, favorited, inCart bool) RecipeResponse {
	lines := make([]IngredientLine, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		lines = append(lines, IngredientLine{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeResponse{
		ID:               r.ID,
		Author:           NewUserResponse(&r.Author, false),
		Tags:             tags,
		Ingredients:      lines,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
	}
}

// RecipeSummary is the compact recipe shape returned by the favorite and
// shopping-cart toggles and by subscription previews.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// SubscriptionResponse is one followed author with a bounded recipe preview.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
