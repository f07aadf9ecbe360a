package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
	Role        string `json:"role"`
	CoachID     string `json:"coach_id"`
}

// Register creates a profile and returns a token plus the API key.
func (api *API) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleCreator
	}
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	// Privileged roles are assigned by an admin, never self-service.
	if role == models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if role == models.RoleCreator && req.CoachID != "" {
		if _, err := api.repo.GetProfile(c.Request.Context(), req.CoachID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown coach_id"})
			return
		}
	}

	profile := &models.UserProfile{
		UID:          uuid.New().String(),
		Email:        strings.ToLower(req.Email),
		DisplayName:  req.DisplayName,
		Role:         role,
		CoachID:      req.CoachID,
		AccountLevel: models.AccountLevelFree,
		IsActive:     true,
	}

	if err := api.repo.CreateProfile(c.Request.Context(), profile, req.Password); err != nil {
		serverError(c, "Failed to create profile", err)
		return
	}

	token, err := api.auth.GenerateToken(profile.UID, profile.Email, profile.Role)
	if err != nil {
		serverError(c, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"api_key": profile.APIKey,
		"user":    profile,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a fresh token.
func (api *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := api.repo.GetProfileByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		serverError(c, "Failed to load profile", err)
		return
	}

	if !profile.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	token, err := api.auth.GenerateToken(profile.UID, profile.Email, profile.Role)
	if err != nil {
		serverError(c, "Failed to issue token", err)
		return
	}

	if err := api.repo.UpdateLastLogin(c.Request.Context(), profile.UID, time.Now()); err != nil {
		api.log.WithError(err).WithUID(profile.UID).Warn("Failed to record login time")
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"api_key": profile.APIKey,
		"user":    profile,
	})
}

// Me returns the caller's profile.
func (api *API) me(c *gin.Context) {
	auth := mustAuth(c)

	profile, err := api.repo.GetProfile(c.Request.Context(), auth.UID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		serverError(c, "Failed to load profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
