package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// usageStats returns the caller's credit usage for the current period.
func (api *API) usageStats(c *gin.Context) {
	auth := mustAuth(c)

	profile, err := api.getProfile(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to load profile", err)
		return
	}

	stats, err := api.credits.Stats(c.Request.Context(), auth.UID, profile.AccountLevel)
	if err != nil {
		serverError(c, "Failed to load usage stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
