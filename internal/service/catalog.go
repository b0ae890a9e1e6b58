package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/types"
)

// CatalogService manages the tag and ingredient reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (s *CatalogService) CreateTag(req *types.TagRequest) (*models.Tag, error) {
	var existing models.Tag
	err := s.db.Where("name = ? OR slug = ?", req.Name, req.Slug).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := models.Tag{Name: req.Name, Slug: req.Slug, Color: req.Color}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *CatalogService) UpdateTag(id uuid.UUID, req *types.TagRequest) (*models.Tag, error) {
	tag, err := s.GetTag(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":  req.Name,
		"slug":  req.Slug,
		"color": req.Color,
	}
	if err := s.db.Model(tag).Updates(updates).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *CatalogService) DeleteTag(id uuid.UUID) error {
	tag, err := s.GetTag(id)
	if err != nil {
		return err
	}
	return s.db.Delete(tag).Error
}

// ListIngredients returns ingredients, optionally filtered by a substring
// of the name.
func (s *CatalogService) ListIngredients(nameContains string) ([]models.Ingredient, error) {
	query := s.db.Order("name")
	if nameContains != "" {
		query = query.Where("name LIKE ?", "%"+nameContains+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (s *CatalogService) CreateIngredient(req *types.IngredientRequest) (*models.Ingredient, error) {
	var existing models.Ingredient
	err := s.db.Where("name = ? AND measurement_unit = ?", req.Name, req.MeasurementUnit).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient := models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.db.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *CatalogService) UpdateIngredient(id uuid.UUID, req *types.IngredientRequest) (*models.Ingredient, error) {
	ingredient, err := s.GetIngredient(id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"name":             req.Name,
		"measurement_unit": req.MeasurementUnit,
	}
	if err := s.db.Model(ingredient).Updates(updates).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *CatalogService) DeleteIngredient(id uuid.UUID) error {
	ingredient, err := s.GetIngredient(id)
	if err != nil {
		return err
	}
	return s.db.Delete(ingredient).Error
}
