package service

import "github.com/recipebox/backend/internal/models"

// CanModifyRecipe allows the recipe's author and admins to update or
// delete it.
func CanModifyRecipe(user *models.User, recipe *models.Recipe) bool {
	if user == nil {
		return false
	}
	return recipe.AuthorID == user.ID || user.IsAdmin()
}

// CanManageCatalog allows admins to mutate tags and ingredients.
func CanManageCatalog(user *models.User) bool {
	return user != nil && user.IsAdmin()
}
