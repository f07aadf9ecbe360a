package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/bunny"
	"github.com/gencapp/genc/internal/credits"
	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/pkg/models"
)

// chargeCredits deducts the cost of action from the caller's balance.
// On denial or error it writes the response and returns false.
func (api *API) chargeCredits(c *gin.Context, uid string, action models.ActionKind) bool {
	profile, err := api.getProfile(c.Request.Context(), uid)
	if err != nil {
		serverError(c, "Failed to load profile", err)
		return false
	}

	cost, err := api.credits.Charge(c.Request.Context(), uid, profile.AccountLevel, action)
	if err != nil {
		if errors.Is(err, credits.ErrInsufficientCredits) {
			metrics.CreditDenialsTotal.Inc()
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient credits"})
			return false
		}
		serverError(c, "Failed to charge credits", err)
		return false
	}

	metrics.RecordCreditCharge(string(action), cost)
	return true
}

// detectPlatform classifies a video URL by hostname.
func detectPlatform(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return models.PlatformOther
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "tiktok.com"):
		return models.PlatformTikTok
	case strings.Contains(host, "instagram.com"):
		return models.PlatformInstagram
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return models.PlatformYouTube
	case bunny.IsVideoURL(raw):
		return models.PlatformBunny
	default:
		return models.PlatformOther
	}
}

func (api *API) listVideos(c *gin.Context) {
	auth := mustAuth(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	page, err := api.query.GetCollectionVideos(c.Request.Context(), auth.UID, c.Query("collection_id"), limit, c.Query("cursor"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid cursor") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		serverError(c, "Failed to list videos", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type addVideoRequest struct {
	URL          string `json:"url" binding:"required"`
	CollectionID string `json:"collection_id" binding:"required"`
	Title        string `json:"title"`
	Author       string `json:"author"`
}

// addVideo saves a video by URL, charges a transcription credit and
// queues the transcription job.
func (api *API) addVideo(c *gin.Context) {
	auth := mustAuth(c)

	var req addVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := api.loadCollectionForWrite(c, req.CollectionID)
	if collection == nil {
		return
	}

	video := &models.Video{
		ID:           uuid.New().String(),
		URL:          req.URL,
		Platform:     detectPlatform(req.URL),
		Title:        req.Title,
		Author:       req.Author,
		CollectionID: collection.ID,
		UserID:       auth.UID,
	}

	if ref, err := bunny.ParseVideoURL(req.URL); err == nil {
		video.URL = bunny.IframeURL(ref.LibraryID, ref.VideoID)
		if api.cdnHostname != "" {
			video.ThumbnailURL = bunny.ThumbnailURL(api.cdnHostname, ref.VideoID)
		}
	}

	if !api.chargeCredits(c, auth.UID, models.ActionTranscription) {
		return
	}

	if err := api.repo.CreateVideo(c.Request.Context(), video); err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionTranscription)
		serverError(c, "Failed to save video", err)
		return
	}

	// video_count on the owning collection changed
	api.invalidateCollections(c.Request.Context(), collection.UserID)

	if err := api.transcriptions.Enqueue(c.Request.Context(), video, auth.UID); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Error("Failed to enqueue transcription")
	}

	if api.stream != nil && api.stream.LibraryID() != "" && video.Platform != models.PlatformBunny {
		go api.mirrorToCDN(video)
	}

	if err := api.notifier.NotifyVideoAdded(c.Request.Context(), video); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Warn("Failed to send video webhook")
	}

	c.JSON(http.StatusCreated, video)
}

// mirrorToCDN asks Bunny to fetch the remote media into our stream
// library. Best effort; playback falls back to the source URL.
func (api *API) mirrorToCDN(video *models.Video) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := api.stream.FetchVideo(ctx, video.URL, video.Title); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Warn("Failed to mirror video to CDN")
		return
	}
	api.log.WithVideoID(video.ID).Debug("Video queued for CDN fetch")
}

// loadVideo fetches a video and verifies read access. On failure it
// writes the response and returns nil.
func (api *API) loadVideo(c *gin.Context, id string) *models.Video {
	auth := mustAuth(c)

	video, err := api.repo.GetVideo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return nil
		}
		serverError(c, "Failed to load video", err)
		return nil
	}

	if auth.Role != models.RoleSuperAdmin {
		ok, err := api.resolver.CanRead(c.Request.Context(), auth.UID, video.UserID)
		if err != nil {
			serverError(c, "Failed to resolve access", err)
			return nil
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return nil
		}
	}

	return video
}

func (api *API) getVideo(c *gin.Context) {
	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}
	c.JSON(http.StatusOK, video)
}

type updateVideoRequest struct {
	Title    *string `json:"title"`
	Favorite *bool   `json:"favorite"`
}

func (api *API) updateVideo(c *gin.Context) {
	auth := mustAuth(c)

	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}
	if video.UserID != auth.UID && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := database.VideoUpdate{Title: req.Title, Favorite: req.Favorite}
	if err := api.repo.UpdateVideo(c.Request.Context(), video.ID, upd); err != nil {
		serverError(c, "Failed to update video", err)
		return
	}

	updated, err := api.repo.GetVideo(c.Request.Context(), video.ID)
	if err != nil {
		serverError(c, "Failed to load video", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (api *API) deleteVideo(c *gin.Context) {
	auth := mustAuth(c)

	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}
	if video.UserID != auth.UID && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := api.repo.DeleteVideo(c.Request.Context(), video.ID); err != nil {
		serverError(c, "Failed to delete video", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), video.UserID)

	if api.stream != nil && api.stream.LibraryID() != "" {
		go api.purgeFromCDN(video)
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// purgeFromCDN removes the CDN copy of a deleted video from our stream
// library. Best effort; foreign-library URLs are left alone.
func (api *API) purgeFromCDN(video *models.Video) {
	ref, err := bunny.ParseVideoURL(video.URL)
	if err != nil || ref.LibraryID != api.stream.LibraryID() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := api.stream.DeleteVideo(ctx, ref.VideoID); err != nil {
		api.log.WithError(err).WithVideoID(video.ID).Warn("Failed to delete CDN copy")
		return
	}
	api.log.WithVideoID(video.ID).Debug("CDN copy deleted")
}

type videoTargetRequest struct {
	CollectionID string `json:"collection_id" binding:"required"`
}

func (api *API) moveVideo(c *gin.Context) {
	auth := mustAuth(c)

	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}
	if video.UserID != auth.UID && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req videoTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := api.loadCollectionForWrite(c, req.CollectionID)
	if target == nil {
		return
	}

	if err := api.repo.MoveVideo(c.Request.Context(), video.ID, target.ID); err != nil {
		serverError(c, "Failed to move video", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), video.UserID)
	if target.UserID != video.UserID {
		api.invalidateCollections(c.Request.Context(), target.UserID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "moved", "collection_id": target.ID})
}

func (api *API) copyVideo(c *gin.Context) {
	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}

	var req videoTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := api.loadCollectionForWrite(c, req.CollectionID)
	if target == nil {
		return
	}

	copied, err := api.repo.CopyVideo(c.Request.Context(), video.ID, target.ID)
	if err != nil {
		serverError(c, "Failed to copy video", err)
		return
	}

	api.invalidateCollections(c.Request.Context(), target.UserID)

	c.JSON(http.StatusCreated, copied)
}

// retranscribeVideo re-queues a video for transcription, charging again.
func (api *API) retranscribeVideo(c *gin.Context) {
	auth := mustAuth(c)

	video := api.loadVideo(c, c.Param("id"))
	if video == nil {
		return
	}

	if video.TranscriptionStatus == models.TranscriptionStatusProcessing {
		c.JSON(http.StatusConflict, gin.H{"error": "Transcription already in progress"})
		return
	}

	if !api.chargeCredits(c, auth.UID, models.ActionTranscription) {
		return
	}

	if err := api.transcriptions.Enqueue(c.Request.Context(), video, auth.UID); err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionTranscription)
		serverError(c, "Failed to enqueue transcription", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"video_id": video.ID,
		"status":   models.TranscriptionStatusPending,
	})
}
