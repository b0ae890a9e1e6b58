package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/types"
)

// RecipeFilter narrows a recipe listing. Nil pointer fields are ignored.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeService handles recipe persistence and the derived listing views.
type RecipeService struct {
	db     *gorm.DB
	images *ImageService
}

func NewRecipeService(db *gorm.DB, images *ImageService) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// GetRecipe retrieves a recipe with its author, tags and ingredient lines.
func (s *RecipeService) GetRecipe(id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns recipes matching the filter, newest first.
func (s *RecipeService) ListRecipes(filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.Model(&models.Recipe{}).
		Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC")

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.FavoritedBy != nil {
		query = query.Joins(
			"JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?",
			*filter.FavoritedBy)
	}
	if filter.InCartOf != nil {
		query = query.Joins(
			"JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id AND shopping_carts.user_id = ?",
			*filter.InCartOf)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CreateRecipe validates references, stores the image and persists the
// recipe with its tag set and ingredient lines in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	tags, err := s.resolveTags(req.Tags)
	if err != nil {
		return nil, err
	}
	lines, err := s.resolveLines(req.Ingredients)
	if err != nil {
		return nil, err
	}

	imageRef := ""
	if req.Image != "" {
		imageRef, err = s.images.SaveBase64(ctx, req.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       imageRef,
		Text:        req.Text,
		CookingTime: *req.CookingTime,
		Ingredients: lines,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(&recipe).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Tags").Append(&tags)
	})
	if err != nil {
		// The image was stored before the transaction; don't leave it
		// orphaned when the recipe fails to persist.
		if imageRef != "" {
			_ = s.images.Remove(ctx, imageRef)
		}
		return nil, err
	}

	return s.GetRecipe(recipe.ID)
}

// UpdateRecipe applies a partial scalar update and, when the payload carries
// them, replaces the full tag set and ingredient-line set. All mutations run
// in one transaction so a failed replace leaves the old lines intact.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(id)
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	if req.Tags != nil {
		if tags, err = s.resolveTags(req.Tags); err != nil {
			return nil, err
		}
	}
	var lines []models.RecipeIngredient
	if req.Ingredients != nil {
		if lines, err = s.resolveLines(req.Ingredients); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Text != "" {
		updates["text"] = req.Text
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}
	imageRef := ""
	if req.Image != "" {
		if imageRef, err = s.images.SaveBase64(ctx, req.Image); err != nil {
			return nil, err
		}
		updates["image"] = imageRef
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			for i := range lines {
				lines[i].RecipeID = id
			}
			if len(lines) > 0 {
				if err := tx.Create(&lines).Error; err != nil {
					return err
				}
			}
		}
		if req.Tags != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if imageRef != "" {
			_ = s.images.Remove(ctx, imageRef)
		}
		return nil, err
	}

	return s.GetRecipe(id)
}

// DeleteRecipe removes a recipe together with its ingredient lines, tag
// associations and any favorite or shopping-cart rows referencing it.
func (s *RecipeService) DeleteRecipe(id uuid.UUID) error {
	recipe, err := s.GetRecipe(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// MembershipFlags reports, for each given recipe, whether the user has it
// favorited and whether it is in their shopping cart. An anonymous requester
// (uuid.Nil) gets empty maps.
func (s *RecipeService) MembershipFlags(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, map[uuid.UUID]bool, error) {
	favorited := make(map[uuid.UUID]bool)
	inCart := make(map[uuid.UUID]bool)
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return favorited, inCart, nil
	}

	var favorites []models.Favorite
	if err := s.db.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&favorites).Error; err != nil {
		return nil, nil, err
	}
	for _, f := range favorites {
		favorited[f.RecipeID] = true
	}

	var carts []models.ShoppingCart
	if err := s.db.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Find(&carts).Error; err != nil {
		return nil, nil, err
	}
	for _, c := range carts {
		inCart[c.RecipeID] = true
	}

	return favorited, inCart, nil
}

func (s *RecipeService) resolveTags(ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func (s *RecipeService) resolveLines(lines []types.IngredientAmount) ([]models.RecipeIngredient, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	var count int64
	if err := s.db.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(uniqueIDs(ids))) {
		return nil, ErrNotFound
	}

	result := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		result = append(result, models.RecipeIngredient{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return result, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
