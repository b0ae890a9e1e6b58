package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, userToken := env.createUserAndToken(t, "user", false)
	_, adminToken := env.createUserAndToken(t, "admin", true)

	payload := map[string]interface{}{"name": "dinner", "slug": "dinner", "color": "#FF0000"}

	// Mutation is admin only.
	w := env.do(t, "POST", "/api/v1/tags", userToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, "POST", "/api/v1/tags", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/api/v1/tags", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tagID := decodeJSON(t, w)["id"].(string)

	// Non-hex colors are rejected at creation.
	bad := map[string]interface{}{"name": "lunch", "slug": "lunch", "color": "red"}
	w = env.do(t, "POST", "/api/v1/tags", adminToken, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate name is a conflict.
	w = env.do(t, "POST", "/api/v1/tags", adminToken, payload)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reads are public.
	w = env.do(t, "GET", "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["tags"], 1)

	w = env.do(t, "GET", "/api/v1/tags/"+tagID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dinner", decodeJSON(t, w)["name"])

	// Updates take the full representation over PUT; a partial payload is
	// rejected and non-admins may not update at all.
	updated := map[string]interface{}{"name": "supper", "slug": "supper", "color": "#00FF00"}
	w = env.do(t, "PUT", "/api/v1/tags/"+tagID, userToken, updated)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "PUT", "/api/v1/tags/"+tagID, adminToken, map[string]interface{}{"name": "supper"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", "/api/v1/tags/"+tagID, adminToken, updated)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "supper", decodeJSON(t, w)["name"])
}

func TestIngredientEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.createUserAndToken(t, "admin", true)

	for _, payload := range []map[string]interface{}{
		{"name": "wheat flour", "measurement_unit": "g"},
		{"name": "rye flour", "measurement_unit": "g"},
		{"name": "salt", "measurement_unit": "g"},
	} {
		w := env.do(t, "POST", "/api/v1/ingredients", adminToken, payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Duplicate (name, unit) pair is a conflict.
	w := env.do(t, "POST", "/api/v1/ingredients", adminToken,
		map[string]interface{}{"name": "salt", "measurement_unit": "g"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Substring filter on name, public access.
	w = env.do(t, "GET", "/api/v1/ingredients?name=flour", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["ingredients"], 2)

	w = env.do(t, "GET", "/api/v1/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["ingredients"], 3)
}
