package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/models"
)

func TestSubscribeEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	reader, token := env.createUserAndToken(t, "reader", false)
	author, _ := env.createUserAndToken(t, "author", false)
	flour := env.seedIngredient(t, "flour", "g")
	env.seedRecipe(t, author, "Bread", map[*models.Ingredient]int{flour: 2})

	// Self-subscription is rejected before any existence check.
	w := env.do(t, "POST", "/api/v1/users/"+reader.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", "/api/v1/users/"+uuid.New().String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeJSON(t, w)
	assert.Equal(t, "author", body["username"])
	assert.Equal(t, true, body["is_subscribed"])
	assert.Equal(t, float64(1), body["recipes_count"])

	w = env.do(t, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "DELETE", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionsListing(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "reader", false)
	author, _ := env.createUserAndToken(t, "author", false)
	flour := env.seedIngredient(t, "flour", "g")
	for _, name := range []string{"Bread", "Pie", "Soup"} {
		env.seedRecipe(t, author, name, map[*models.Ingredient]int{flour: 2})
	}

	w := env.do(t, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/api/v1/users/subscriptions?recipes_limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSON(t, w)
	subs := body["subscriptions"].([]interface{})
	require.Len(t, subs, 1)
	entry := subs[0].(map[string]interface{})
	assert.Equal(t, "author", entry["username"])
	assert.Equal(t, float64(3), entry["recipes_count"])
	assert.Len(t, entry["recipes"], 2)

	w = env.do(t, "GET", "/api/v1/users/subscriptions?recipes_limit=oops", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "GET", "/api/v1/users/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserSubscribedFlag(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "reader", false)
	author, _ := env.createUserAndToken(t, "author", false)

	w := env.do(t, "GET", "/api/v1/users/"+author.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeJSON(t, w)["is_subscribed"])

	w = env.do(t, "POST", "/api/v1/users/"+author.ID.String()+"/subscribe", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, "GET", "/api/v1/users/"+author.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeJSON(t, w)["is_subscribed"])

	// Anonymous profile reads work and report no subscription.
	w = env.do(t, "GET", "/api/v1/users/"+author.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeJSON(t, w)["is_subscribed"])
}
