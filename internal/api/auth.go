package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/types"
)

// AuthHandler serves account endpoints and the user-side subscription
// routes.
type AuthHandler struct {
	authService     *service.AuthService
	relationService *service.RelationService
}

func NewAuthHandler(authService *service.AuthService, relationService *service.RelationService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		relationService: relationService,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/set_password", middleware.AuthMiddleware(h.authService), h.SetPassword)
	}

	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", middleware.AuthMiddleware(h.authService), h.Me)
		users.GET("/subscriptions", middleware.AuthMiddleware(h.authService), h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.GET("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	token, err := h.authService.Register(&req)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		mapError(c, err)
		return
	}

	if err := h.authService.SetPassword(currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		mapError(c, err)
		return
	}

	out := make([]types.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, types.NewUserResponse(&users[i], false))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user, false))
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		mapError(c, err)
		return
	}

	subscribed, err := h.relationService.IsFollowing(currentUserID(c), user.ID)
	if err != nil {
		mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user, subscribed))
}

func (h *AuthHandler) Subscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.relationService.Follow(currentUserID(c), authorID)
	if err != nil {
		mapError(c, err)
		return
	}

	entries, err := h.relationService.Subscriptions(currentUserID(c), 0)
	if err != nil {
		mapError(c, err)
		return
	}
	for _, entry := range entries {
		if entry.Author.ID != author.ID {
			continue
		}
		c.JSON(http.StatusCreated, subscriptionResponse(entry))
		return
	}
	c.JSON(http.StatusCreated, types.SubscriptionResponse{
		UserResponse: types.NewUserResponse(author, true),
		Recipes:      []types.RecipeSummary{},
	})
}

func (h *AuthHandler) Unsubscribe(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.relationService.Unfollow(currentUserID(c), authorID); err != nil {
		mapError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Subscriptions(c *gin.Context) {
	recipesLimit := 0
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipes_limit must be a non-negative integer"})
			return
		}
		recipesLimit = n
	}

	entries, err := h.relationService.Subscriptions(currentUserID(c), recipesLimit)
	if err != nil {
		mapError(c, err)
		return
	}

	out := make([]types.SubscriptionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, subscriptionResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func subscriptionResponse(entry service.SubscriptionEntry) types.SubscriptionResponse {
	recipes := make([]types.RecipeSummary, 0, len(entry.Recipes))
	for i := range entry.Recipes {
		recipes = append(recipes, types.NewRecipeSummary(&entry.Recipes[i]))
	}
	return types.SubscriptionResponse{
		UserResponse: types.NewUserResponse(&entry.Author, true),
		Recipes:      recipes,
		RecipesCount: entry.RecipesCount,
	}
}
