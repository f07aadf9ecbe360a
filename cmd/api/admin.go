package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gencapp/genc/internal/credits"
	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

const adminPageSize = 50

// listUsers returns all profiles, paged by limit/offset.
func (api *API) listUsers(c *gin.Context) {
	limit := adminPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}
		offset = n
	}

	profiles, err := api.repo.ListProfiles(c.Request.Context(), limit, offset)
	if err != nil {
		serverError(c, "Failed to list users", err)
		return
	}

	total, err := api.repo.CountProfiles(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to count users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":  profiles,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

type updateUserRequest struct {
	DisplayName  *string `json:"display_name"`
	Role         *string `json:"role"`
	CoachID      *string `json:"coach_id"`
	AccountLevel *string `json:"account_level"`
	IsActive     *bool   `json:"is_active"`
}

// updateUser applies an admin edit to a profile. Role, coach and plan
// changes invalidate the cached access scope.
func (api *API) updateUser(c *gin.Context) {
	uid := c.Param("uid")

	profile, err := api.repo.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, "Failed to load user", err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := database.ProfileUpdate{
		DisplayName:  req.DisplayName,
		CoachID:      req.CoachID,
		AccountLevel: req.AccountLevel,
		IsActive:     req.IsActive,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		upd.Role = &role
	}
	if req.AccountLevel != nil {
		switch *req.AccountLevel {
		case models.AccountLevelFree, models.AccountLevelPro:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account level"})
			return
		}
	}

	if err := api.repo.UpdateProfile(c.Request.Context(), uid, upd); err != nil {
		serverError(c, "Failed to update user", err)
		return
	}

	api.invalidateProfile(c.Request.Context(), uid)

	if req.AccountLevel != nil && *req.AccountLevel != profile.AccountLevel {
		if err := api.credits.ChangePlan(c.Request.Context(), uid, *req.AccountLevel); err != nil {
			serverError(c, "Failed to change plan", err)
			return
		}
	}

	updated, err := api.repo.GetProfile(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to load user", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (api *API) deleteUser(c *gin.Context) {
	auth := mustAuth(c)
	uid := c.Param("uid")

	if uid == auth.UID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete own account"})
		return
	}

	if err := api.repo.DeleteProfile(c.Request.Context(), uid); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, "Failed to delete user", err)
		return
	}

	api.invalidateProfile(c.Request.Context(), uid)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// resetUserCredits zeroes a user's usage for the current period.
func (api *API) resetUserCredits(c *gin.Context) {
	uid := c.Param("uid")

	profile, err := api.repo.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, "Failed to load user", err)
		return
	}

	plan := credits.PlanFor(profile.AccountLevel)
	start := credits.PeriodStart(plan.PeriodType, time.Now())

	if err := api.repo.ResetCreditPeriod(c.Request.Context(), uid, start); err != nil {
		serverError(c, "Failed to reset credits", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "reset",
		"period_start": start,
	})
}

// activateBrandProfile makes one coach the active brand profile,
// deactivating the rest in a single transaction.
func (api *API) activateBrandProfile(c *gin.Context) {
	uid := c.Param("uid")

	if err := api.repo.ActivateBrandProfile(c.Request.Context(), uid); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		serverError(c, "Failed to activate brand profile", err)
		return
	}

	api.invalidateProfile(c.Request.Context(), uid)

	c.JSON(http.StatusOK, gin.H{"status": "activated", "uid": uid})
}
