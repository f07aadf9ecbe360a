package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gencapp/genc/pkg/models"
)

type mockProfileLookup struct {
	mock.Mock
}

func (m *mockProfileLookup) GetProfileByAPIKey(ctx context.Context, apiKey string) (*models.UserProfile, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func newTestAuthenticator(profiles ProfileLookup) *Authenticator {
	return NewAuthenticator("test-secret", time.Hour, profiles)
}

func TestGenerateToken(t *testing.T) {
	auth := newTestAuthenticator(nil)

	token, err := auth.GenerateToken("user-1", "coach@example.com", models.RoleCoach)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "No credentials"},
		{name: "Malformed bearer header", authHeader: "NotBearer"},
		{name: "Garbage token", authHeader: "Bearer not-a-jwt"},
	}

	auth := newTestAuthenticator(new(mockProfileLookup))
	router := gin.New()
	router.Use(auth.Auth())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "Unauthorized")
		})
	}
}

func TestAuthWithValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := newTestAuthenticator(nil)
	token, err := auth.GenerateToken("user-1", "coach@example.com", models.RoleCoach)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(auth.Auth())
	router.GET("/test", func(c *gin.Context) {
		res, ok := GetAuth(c)
		assert.True(t, ok)
		assert.Equal(t, "user-1", res.UID)
		assert.Equal(t, models.RoleCoach, res.Role)
		assert.Equal(t, MethodJWT, res.Method)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := NewAuthenticator("test-secret", -time.Minute, nil)
	token, err := auth.GenerateToken("user-1", "coach@example.com", models.RoleCoach)
	assert.NoError(t, err)

	router := gin.New()
	router.Use(auth.Auth())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthWithAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	profiles := new(mockProfileLookup)
	profiles.On("GetProfileByAPIKey", mock.Anything, "valid-key").Return(&models.UserProfile{
		UID:      "user-2",
		Email:    "creator@example.com",
		Role:     models.RoleCreator,
		IsActive: true,
	}, nil)
	profiles.On("GetProfileByAPIKey", mock.Anything, "inactive-key").Return(&models.UserProfile{
		UID:      "user-3",
		Role:     models.RoleCreator,
		IsActive: false,
	}, nil)

	auth := newTestAuthenticator(profiles)
	router := gin.New()
	router.Use(auth.Auth())
	router.GET("/test", func(c *gin.Context) {
		res, ok := GetAuth(c)
		assert.True(t, ok)
		assert.Equal(t, MethodAPIKey, res.Method)
		c.JSON(http.StatusOK, gin.H{"uid": res.UID})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(APIKeyHeader, "valid-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-2")

	// Inactive profile must not authenticate
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(APIKeyHeader, "inactive-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := newTestAuthenticator(nil)
	adminToken, _ := auth.GenerateToken("admin-1", "admin@example.com", models.RoleSuperAdmin)
	coachToken, _ := auth.GenerateToken("coach-1", "coach@example.com", models.RoleCoach)

	router := gin.New()
	router.Use(auth.Auth())
	router.GET("/admin", RequireRole(models.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+coachToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied")
}
