package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// RelationService manages the per-user membership rows: favorites,
// shopping-cart entries and author subscriptions.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// AddFavorite inserts a (user, recipe) favorite row and returns the recipe
// for the compact summary response. A second add for the same pair fails
// with ErrAlreadyExists.
func (s *RelationService) AddFavorite(userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addMembership(userID, recipeID, &models.Favorite{UserID: userID, RecipeID: recipeID},
		func() (int64, error) {
			var n int64
			err := s.db.Model(&models.Favorite{}).
				Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&n).Error
			return n, err
		})
}

// RemoveFavorite deletes the (user, recipe) favorite row; removing an
// absent row fails with ErrNotFound.
func (s *RelationService) RemoveFavorite(userID, recipeID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToCart inserts a (user, recipe) shopping-cart row. Same state machine
// as AddFavorite.
func (s *RelationService) AddToCart(userID, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addMembership(userID, recipeID, &models.ShoppingCart{UserID: userID, RecipeID: recipeID},
		func() (int64, error) {
			var n int64
			err := s.db.Model(&models.ShoppingCart{}).
				Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&n).Error
			return n, err
		})
}

// RemoveFromCart deletes the (user, recipe) shopping-cart row.
func (s *RelationService) RemoveFromCart(userID, recipeID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RelationService) addMembership(userID, recipeID uuid.UUID, row interface{}, count func() (int64, error)) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	n, err := count()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyExists
	}

	if err := s.db.Create(row).Error; err != nil {
		// A concurrent add can still win the race; the unique index turns
		// it into a conflict rather than a duplicate.
		return nil, ErrAlreadyExists
	}
	return &recipe, nil
}

// Follow creates a subscription edge from userID to authorID. Following
// yourself fails with ErrSelfFollow before any existence check.
func (s *RelationService) Follow(userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var n int64
	if err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyExists
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.Create(&follow).Error; err != nil {
		return nil, ErrAlreadyExists
	}
	return &author, nil
}

// Unfollow removes the subscription edge; removing an absent edge fails
// with ErrNotFound.
func (s *RelationService) Unfollow(userID, authorID uuid.UUID) error {
	result := s.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFollowing reports whether userID subscribes to authorID.
func (s *RelationService) IsFollowing(userID, authorID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).Count(&n).Error
	return n > 0, err
}

// SubscriptionEntry is one followed author with a bounded recipe preview.
type SubscriptionEntry struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

// Subscriptions returns the distinct authors followed by userID, each with
// a preview of their recipes capped at recipesLimit (0 means unbounded)
// and their total recipe count.
func (s *RelationService) Subscriptions(userID uuid.UUID, recipesLimit int) ([]SubscriptionEntry, error) {
	var follows []models.Follow
	if err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&follows).Error; err != nil {
		return nil, err
	}

	entries := make([]SubscriptionEntry, 0, len(follows))
	for _, follow := range follows {
		var author models.User
		if err := s.db.First(&author, "id = ?", follow.AuthorID).Error; err != nil {
			return nil, err
		}

		var count int64
		if err := s.db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
			return nil, err
		}

		query := s.db.Where("author_id = ?", author.ID).Order("created_at DESC")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, err
		}

		entries = append(entries, SubscriptionEntry{
			Author:       author,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}
	return entries, nil
}
