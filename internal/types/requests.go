package types

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return newValidationError("email", "a valid email is required")
	}
	if r.Username == "" {
		return newValidationError("username", "username is required")
	}
	if len(r.Password) < 8 {
		return newValidationError("password", "password must be at least 8 characters")
	}
	return nil
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return newValidationError("email", "email is required")
	}
	if r.Password == "" {
		return newValidationError("password", "password is required")
	}
	return nil
}

// SetPasswordRequest changes the current user's credential.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *SetPasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return newValidationError("current_password", "current password is required")
	}
	if len(r.NewPassword) < 8 {
		return newValidationError("new_password", "password must be at least 8 characters")
	}
	return nil
}

// IngredientAmount is one ingredient line of a recipe write payload.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the recipe create/update payload. On update, nil
// Tags/Ingredients and empty scalars mean "leave unchanged"; when present
// they replace the full set.
type RecipeRequest struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime *int               `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// Validate checks a create payload; partial relaxes required-field checks
// for PATCH-style updates while still rejecting out-of-range values.
func (r *RecipeRequest) Validate(partial bool) error {
	if !partial {
		if r.Name == "" {
			return newValidationError("name", "name is required")
		}
		if r.CookingTime == nil {
			return newValidationError("cooking_time", "cooking time is required")
		}
		if len(r.Tags) == 0 {
			return newValidationError("tags", "at least one tag is required")
		}
		if len(r.Ingredients) == 0 {
			return newValidationError("ingredients", "at least one ingredient is required")
		}
	}
	// An explicitly empty collection on update would wipe the set and
	// leave the recipe without tags or ingredients.
	if r.Tags != nil && len(r.Tags) == 0 {
		return newValidationError("tags", "at least one tag is required")
	}
	if r.Ingredients != nil && len(r.Ingredients) == 0 {
		return newValidationError("ingredients", "at least one ingredient is required")
	}
	if r.CookingTime != nil && *r.CookingTime < 1 {
		return newValidationError("cooking_time", "cooking time must be a positive integer")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(r.Tags))
	for _, id := range r.Tags {
		if _, ok := seenTags[id]; ok {
			return newValidationError("tags", "duplicate tag id")
		}
		seenTags[id] = struct{}{}
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(r.Ingredients))
	for _, line := range r.Ingredients {
		if line.ID == uuid.Nil {
			return newValidationError("ingredients", "ingredient id is required")
		}
		if _, ok := seenIngredients[line.ID]; ok {
			return newValidationError("ingredients", "duplicate ingredient id")
		}
		seenIngredients[line.ID] = struct{}{}
		if line.Amount < 1 {
			return newValidationError("ingredients", "amount must be a positive integer")
		}
	}
	return nil
}

// TagRequest is the admin tag create/update payload.
type TagRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

func (r *TagRequest) Validate() error {
	if r.Name == "" {
		return newValidationError("name", "name is required")
	}
	if r.Slug == "" {
		return newValidationError("slug", "slug is required")
	}
	if !hexColorRe.MatchString(r.Color) {
		return newValidationError("color", "color must be in #RRGGBB hex form")
	}
	return nil
}

// IngredientRequest is the admin ingredient create/update payload.
type IngredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func (r *IngredientRequest) Validate() error {
	if r.Name == "" {
		return newValidationError("name", "name is required")
	}
	if r.MeasurementUnit == "" {
		return newValidationError("measurement_unit", "measurement unit is required")
	}
	return nil
}
