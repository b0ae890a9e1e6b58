package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/types"
)

// RecipeHandler serves the recipe resource, the favorite and shopping-cart
// toggles and the shopping-list export.
type RecipeHandler struct {
	authService         *service.AuthService
	recipeService       *service.RecipeService
	relationService     *service.RelationService
	shoppingListService *service.ShoppingListService
}

func NewRecipeHandler(
	authService *service.AuthService,
	recipeService *service.RecipeService,
	relationService *service.RelationService,
	shoppingListService *service.ShoppingListService,
) *RecipeHandler {
	return &RecipeHandler{
		authService:         authService,
		recipeService:       recipeService,
		relationService:     relationService,
		shoppingListService: shoppingListService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.authService), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.GET("/:id/favorite", middleware.AuthMiddleware(h.authService), h.AddFavorite)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.authService), h.AddFavorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.authService), h.RemoveFavorite)
		recipes.GET("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.AddToCart)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID := currentUserID(c)
	filter := service.RecipeFilter{}

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &id
	}
	filter.TagSlugs = c.QueryArray("tags")

	// The membership filters are meaningful only for an authenticated
	// requester; anonymous requests asking for them get an empty list.
	if isTruthy(c.Query("is_favorited")) {
		if userID == uuid.Nil {
			c.JSON(http.StatusOK, gin.H{"recipes": []types.RecipeResponse{}})
			return
		}
		filter.FavoritedBy = &userID
	}
	if isTruthy(c.Query("is_in_shopping_cart")) {
		if userID == uuid.Nil {
			c.JSON(http.StatusOK, gin.H{"recipes": []types.RecipeResponse{}})
			return
		}
		filter.InCartOf = &userID
	}

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	recipes, err := h.recipeService.ListRecipes(filter)
	if err != nil {
		mapError(c, err)
		return
	}

	out, err := h.recipeResponses(userID, recipes)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(id)
	if err != nil {
		mapError(c, err)
		return
	}

	out, err := h.recipeResponses(currentUserID(c), []models.Recipe{*recipe})
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(false); err != nil {
		mapError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		mapError(c, err)
		return
	}

	out, err := h.recipeResponses(currentUserID(c), []models.Recipe{*recipe})
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out[0])
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	partial := c.Request.Method == http.MethodPatch
	if err := req.Validate(partial); err != nil {
		mapError(c, err)
		return
	}

	if _, _, ok := h.authorizeRecipeWrite(c, id); !ok {
		return
	}

	updated, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		mapError(c, err)
		return
	}

	out, err := h.recipeResponses(currentUserID(c), []models.Recipe{*updated})
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, out[0])
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if _, _, ok := h.authorizeRecipeWrite(c, id); !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(id); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.relationService.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.relationService.RemoveFromCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	document, err := h.shoppingListService.Export(currentUserID(c))
	if err != nil {
		mapError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="buying_list.pdf"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := add(currentUserID(c), recipeID)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeSummary(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(userID, recipeID uuid.UUID) error) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := remove(currentUserID(c), recipeID); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// authorizeRecipeWrite loads the recipe and the acting user and enforces
// the author-or-admin policy, writing the response on denial.
func (h *RecipeHandler) authorizeRecipeWrite(c *gin.Context, id uuid.UUID) (*models.Recipe, *models.User, bool) {
	recipe, err := h.recipeService.GetRecipe(id)
	if err != nil {
		mapError(c, err)
		return nil, nil, false
	}

	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		mapError(c, err)
		return nil, nil, false
	}

	if !service.CanModifyRecipe(user, recipe) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author or an admin may modify this recipe"})
		return nil, nil, false
	}
	return recipe, user, true
}

func (h *RecipeHandler) recipeResponses(userID uuid.UUID, recipes []models.Recipe) ([]types.RecipeResponse, error) {
	ids := make([]uuid.UUID, 0, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
	}
	favorited, inCart, err := h.recipeService.MembershipFlags(userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		out = append(out, types.NewRecipeResponse(r, favorited[r.ID], inCart[r.ID]))
	}
	return out, nil
}

func isTruthy(v string) bool {
	return v == "1" || v == "true" || v == "True"
}
