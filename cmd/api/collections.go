package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/pkg/models"
)

// listCollections returns every collection visible to the caller's scope.
func (api *API) listCollections(c *gin.Context) {
	auth := mustAuth(c)

	scope, err := api.resolver.AccessibleCoaches(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to resolve access", err)
		return
	}

	if api.cache != nil {
		if cached, err := api.cache.GetCollections(c.Request.Context(), auth.UID); err == nil && cached != nil {
			metrics.RecordCacheAccess("collections", true)
			c.JSON(http.StatusOK, gin.H{
				"collections":        cached,
				"accessible_coaches": scope,
			})
			return
		}
		metrics.RecordCacheAccess("collections", false)
	}

	collections, err := api.query.GetUserCollections(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to list collections", err)
		return
	}

	if api.cache != nil {
		if err := api.cache.SetCollections(c.Request.Context(), auth.UID, collections, collectionCacheTTL); err != nil {
			api.log.WithError(err).WithUID(auth.UID).Warn("Failed to cache collections")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"collections":        collections,
		"accessible_coaches": scope,
	})
}

type createCollectionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (api *API) createCollection(c *gin.Context) {
	auth := mustAuth(c)

	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := &models.Collection{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      auth.UID,
	}

	if err := api.repo.CreateCollection(c.Request.Context(), collection); err != nil {
		serverError(c, "Failed to create collection", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), auth.UID)

	c.JSON(http.StatusCreated, collection)
}

// loadCollection fetches a collection and verifies the caller may read it.
// On failure it writes the response and returns nil.
func (api *API) loadCollection(c *gin.Context, id string) *models.Collection {
	auth := mustAuth(c)

	collection, err := api.repo.GetCollection(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return nil
		}
		serverError(c, "Failed to load collection", err)
		return nil
	}

	if auth.Role != models.RoleSuperAdmin {
		ok, err := api.resolver.CanRead(c.Request.Context(), auth.UID, collection.UserID)
		if err != nil {
			serverError(c, "Failed to resolve access", err)
			return nil
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return nil
		}
	}

	return collection
}

// loadCollectionForWrite fetches a collection the caller may modify.
// Reads can be shared down the hierarchy; writes stay with the owner
// unless an admin steps in.
func (api *API) loadCollectionForWrite(c *gin.Context, id string) *models.Collection {
	auth := mustAuth(c)

	collection := api.loadCollection(c, id)
	if collection == nil {
		return nil
	}
	if collection.UserID != auth.UID && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil
	}
	return collection
}

func (api *API) getCollection(c *gin.Context) {
	collection := api.loadCollection(c, c.Param("id"))
	if collection == nil {
		return
	}
	c.JSON(http.StatusOK, collection)
}

type updateCollectionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Favorite    *bool   `json:"favorite"`
}

func (api *API) updateCollection(c *gin.Context) {
	collection := api.loadCollectionForWrite(c, c.Param("id"))
	if collection == nil {
		return
	}

	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := database.CollectionUpdate{
		Title:       req.Title,
		Description: req.Description,
		Favorite:    req.Favorite,
	}
	if err := api.repo.UpdateCollection(c.Request.Context(), collection.ID, upd); err != nil {
		serverError(c, "Failed to update collection", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), collection.UserID)

	updated, err := api.repo.GetCollection(c.Request.Context(), collection.ID)
	if err != nil {
		serverError(c, "Failed to load collection", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (api *API) deleteCollection(c *gin.Context) {
	collection := api.loadCollectionForWrite(c, c.Param("id"))
	if collection == nil {
		return
	}

	if err := api.repo.DeleteCollection(c.Request.Context(), collection.ID); err != nil {
		serverError(c, "Failed to delete collection", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), collection.UserID)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
