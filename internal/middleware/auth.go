package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gencapp/genc/pkg/models"
)

const (
	// AuthContextKey is the gin context key holding the AuthResult.
	AuthContextKey = "auth"

	// APIKeyHeader is the header checked for API key authentication.
	APIKeyHeader = "x-api-key"
)

// Authentication methods recorded in AuthResult.
const (
	MethodJWT    = "jwt"
	MethodAPIKey = "api_key"
)

// AuthResult is the outcome of authentication, stored in the request context.
type AuthResult struct {
	UID    string
	Email  string
	Role   models.Role
	Method string
}

// Claims represents JWT claims issued by the service
type Claims struct {
	UID   string      `json:"uid"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ProfileLookup resolves an API key to a user profile.
type ProfileLookup interface {
	GetProfileByAPIKey(ctx context.Context, apiKey string) (*models.UserProfile, error)
}

// Authenticator validates bearer tokens and API keys.
type Authenticator struct {
	secret   []byte
	tokenTTL time.Duration
	profiles ProfileLookup
}

// NewAuthenticator creates an Authenticator backed by the given profile store.
func NewAuthenticator(secret string, tokenTTL time.Duration, profiles ProfileLookup) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		profiles: profiles,
	}
}

// GenerateToken generates a signed JWT for a user
func (a *Authenticator) GenerateToken(uid, email string, role models.Role) (string, error) {
	claims := Claims{
		UID:   uid,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Auth middleware authenticates every request via bearer token or API key.
// Both paths produce the same AuthResult so handlers never care which was used.
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bearer token first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if res, ok := a.verifyToken(parts[1]); ok {
					c.Set(AuthContextKey, res)
					c.Next()
					return
				}
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		// API key fallback
		apiKey := c.GetHeader(APIKeyHeader)
		if apiKey != "" {
			profile, err := a.profiles.GetProfileByAPIKey(c.Request.Context(), apiKey)
			if err == nil && profile != nil && profile.IsActive {
				c.Set(AuthContextKey, &AuthResult{
					UID:    profile.UID,
					Email:  profile.Email,
					Role:   profile.Role,
					Method: MethodAPIKey,
				})
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
	}
}

func (a *Authenticator) verifyToken(tokenString string) (*AuthResult, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}

	return &AuthResult{
		UID:    claims.UID,
		Email:  claims.Email,
		Role:   claims.Role,
		Method: MethodJWT,
	}, true
}

// RequireRole gates a route to the given roles. Must run after Auth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if auth.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		c.Abort()
	}
}

// GetAuth retrieves the authentication result from the context
func GetAuth(c *gin.Context) (*AuthResult, bool) {
	v, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}

	res, ok := v.(*AuthResult)
	return res, ok
}

// GetUID retrieves the authenticated user's UID from the context
func GetUID(c *gin.Context) (string, bool) {
	auth, ok := GetAuth(c)
	if !ok {
		return "", false
	}
	return auth.UID, true
}
