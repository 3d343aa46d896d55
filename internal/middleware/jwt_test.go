package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleGatedRouter(t *testing.T, role string, handlerRan *bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequireAuthWithRole(role), func(c *gin.Context) {
		*handlerRan = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func doAuthed(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthWithRoleRejectsOtherRoles(t *testing.T) {
	token, err := GenerateToken(7, nil, "customer")
	require.NoError(t, err)

	var handlerRan bool
	r := newRoleGatedRouter(t, "admin", &handlerRan)
	w := doAuthed(r, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerRan, "guarded handler must not run for a customer token")
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
	// Exactly one response body, the 403; nothing written before it.
	assert.NotContains(t, w.Body.String(), "success")
}

func TestRequireAuthWithRoleAllowsMatchingRole(t *testing.T) {
	token, err := GenerateToken(7, nil, "admin")
	require.NoError(t, err)

	var handlerRan bool
	r := newRoleGatedRouter(t, "admin", &handlerRan)
	w := doAuthed(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
}

func TestRequireAuthWithRoleRejectsMissingToken(t *testing.T) {
	var handlerRan bool
	r := newRoleGatedRouter(t, "admin", &handlerRan)
	w := doAuthed(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, handlerRan)
}
