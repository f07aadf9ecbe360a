package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

type createWebhookRequest struct {
	URL    string               `json:"url" binding:"required"`
	Events models.WebhookEvents `json:"events"`
	Secret string               `json:"secret"`
}

func (api *API) createWebhook(c *gin.Context) {
	auth := mustAuth(c)

	var req createWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook URL"})
		return
	}

	secret := req.Secret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			serverError(c, "Failed to generate secret", err)
			return
		}
		secret = hex.EncodeToString(buf)
	}

	webhook := &models.Webhook{
		ID:       uuid.New().String(),
		UserID:   auth.UID,
		URL:      req.URL,
		Events:   req.Events,
		Secret:   secret,
		IsActive: true,
	}

	if err := api.repo.CreateWebhook(c.Request.Context(), webhook); err != nil {
		serverError(c, "Failed to create webhook", err)
		return
	}

	c.JSON(http.StatusCreated, webhook)
}

func (api *API) listWebhooks(c *gin.Context) {
	auth := mustAuth(c)

	webhooks, err := api.repo.ListWebhooksForUser(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to list webhooks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"webhooks": webhooks})
}

func (api *API) deleteWebhook(c *gin.Context) {
	auth := mustAuth(c)

	webhook, err := api.repo.GetWebhook(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
			return
		}
		serverError(c, "Failed to load webhook", err)
		return
	}

	if webhook.UserID != auth.UID && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := api.repo.DeleteWebhook(c.Request.Context(), webhook.ID); err != nil {
		serverError(c, "Failed to delete webhook", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
