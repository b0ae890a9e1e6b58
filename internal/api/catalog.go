package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/types"
)

// CatalogHandler serves the tag and ingredient reference data. Reads are
// public; mutation is admin only.
type CatalogHandler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
}

func NewCatalogHandler(authService *service.AuthService, catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		authService:    authService,
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
		tags.POST("", middleware.AuthMiddleware(h.authService), h.CreateTag)
		// Updates take the full representation, so the route is PUT.
		tags.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateTag)
		tags.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteTag)
	}

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.POST("", middleware.AuthMiddleware(h.authService), h.CreateIngredient)
		ingredients.PUT("/:id", middleware.AuthMiddleware(h.authService), h.UpdateIngredient)
		ingredients.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteIngredient)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags()
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	tag, err := h.catalogService.GetTag(id)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req types.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	tag, err := h.catalogService.CreateTag(&req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHandler) UpdateTag(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	var req types.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	tag, err := h.catalogService.UpdateTag(id, &req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}

	if err := h.catalogService.DeleteTag(id); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Query("name"))
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	ingredient, err := h.catalogService.GetIngredient(id)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var req types.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	ingredient, err := h.catalogService.CreateIngredient(&req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *CatalogHandler) UpdateIngredient(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	var req types.IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	ingredient, err := h.catalogService.UpdateIngredient(id, &req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *CatalogHandler) DeleteIngredient(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	if err := h.catalogService.DeleteIngredient(id); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) requireAdmin(c *gin.Context) bool {
	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		mapError(c, err)
		return false
	}
	if !service.CanManageCatalog(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin rights required"})
		return false
	}
	return true
}
