package service

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// ShoppingListLine is one consolidated entry of the exported list.
type ShoppingListLine struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingListService builds the consolidated shopping list from a user's
// cart and renders it as a downloadable document.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// BuildLines merges the ingredient lines of every recipe in the user's cart,
// keyed by ingredient name in first-seen order. Amounts accumulate; the unit
// is taken from the first occurrence of a name (units are assumed consistent
// per name and are not reconciled). An empty cart, or a cart recipe with no
// ingredient lines, yields ErrEmptyCart.
func (s *ShoppingListService) BuildLines(userID uuid.UUID) ([]ShoppingListLine, error) {
	var cart []models.ShoppingCart
	if err := s.db.Where("user_id = ?", userID).Order("created_at").Find(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[string]int)
	var lines []ShoppingListLine
	for _, item := range cart {
		var recipeLines []models.RecipeIngredient
		err := s.db.Preload("Ingredient").
			Where("recipe_id = ?", item.RecipeID).Find(&recipeLines).Error
		if err != nil {
			return nil, err
		}
		if len(recipeLines) == 0 {
			return nil, ErrEmptyCart
		}

		for _, ri := range recipeLines {
			name := ri.Ingredient.Name
			if i, ok := index[name]; ok {
				lines[i].Amount += ri.Amount
				continue
			}
			index[name] = len(lines)
			lines = append(lines, ShoppingListLine{
				Name:   name,
				Unit:   ri.Ingredient.MeasurementUnit,
				Amount: ri.Amount,
			})
		}
	}
	return lines, nil
}

// RenderPDF formats the consolidated lines as a PDF document.
func (s *ShoppingListService) RenderPDF(lines []ShoppingListLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Shopping list")
	pdf.Ln(14)
	pdf.SetFont("Helvetica", "", 12)
	for i, line := range lines {
		pdf.Cell(0, 8, fmt.Sprintf("%d. %s - %d %s", i+1, line.Name, line.Amount, line.Unit))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export builds and renders the shopping list for userID.
func (s *ShoppingListService) Export(userID uuid.UUID) ([]byte, error) {
	lines, err := s.BuildLines(userID)
	if err != nil {
		return nil, err
	}
	return s.RenderPDF(lines)
}
