package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/autosam-rentals/backend/internal/auth"
	"github.com/autosam-rentals/backend/pkg/response"
)

func buildTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/admin", JWT(jwtService), RequireRole("admin"), func(c *gin.Context) {
		response.OK(c, gin.H{"ok": true})
	})
	router.GET("/maybe", OptionalJWT(jwtService), func(c *gin.Context) {
		_, authed := c.Get(ContextUserID)
		response.OK(c, gin.H{"authenticated": authed})
	})
	return router
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRouteRBAC(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 1)
	router := buildTestRouter(jwtService)

	// No token
	require.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", "").Code)

	// Valid token, wrong role
	userToken, err := jwtService.Generate(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, doRequest(router, "/admin", userToken).Code)

	// Admin role
	adminToken, err := jwtService.Generate(uuid.New(), "admin@example.com", "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doRequest(router, "/admin", adminToken).Code)

	// Token signed with a different secret
	badToken, err := auth.NewJWTService("other-secret", 1).Generate(uuid.New(), "x@y.z", "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", badToken).Code)
}

func TestOptionalJWT(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 1)
	router := buildTestRouter(jwtService)

	// Anonymous requests pass through.
	rec := doRequest(router, "/maybe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Valid token attaches claims.
	token, err := jwtService.Generate(uuid.New(), "user@example.com", "user")
	require.NoError(t, err)
	rec = doRequest(router, "/maybe", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":true`)

	// Invalid token downgrades to anonymous instead of failing.
	rec = doRequest(router, "/maybe", "broken.token.here")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"authenticated":false`)
}
