package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/storage"
	"github.com/gencapp/genc/pkg/models"
)

const (
	maxAudioBytes        = 25 << 20
	voiceTrainingTimeout = 5 * time.Minute
	voiceSampleLimit     = 50
)

// transcribeVoiceNote accepts a multipart audio upload, stores it and
// returns the Gemini transcript.
func (api *API) transcribeVoiceNote(c *gin.Context) {
	auth := mustAuth(c)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	defer file.Close()

	if header.Size > maxAudioBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file too large"})
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		serverError(c, "Failed to read audio", err)
		return
	}

	contentType := storage.AudioContentType(header.Filename)
	objectName := fmt.Sprintf("voice-notes/%s/%s-%s", auth.UID, uuid.New().String(), header.Filename)

	if err := api.storage.Upload(c.Request.Context(), objectName, bytes.NewReader(audio), int64(len(audio)), contentType); err != nil {
		serverError(c, "Failed to store audio", err)
		return
	}

	transcript, err := api.ai.TranscribeAudio(c.Request.Context(), audio, contentType)
	if err != nil {
		serverError(c, "Failed to transcribe audio", err)
		return
	}

	audioURL, err := api.storage.GetURL(c.Request.Context(), objectName)
	if err != nil {
		api.log.WithError(err).WithUID(auth.UID).Warn("Failed to presign audio URL")
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript": transcript,
		"audio_url":  audioURL,
	})
}

// loadVoice fetches a voice the caller may use (own or shared). On
// failure it writes the response and returns nil.
func (api *API) loadVoice(c *gin.Context, id string) *models.AIVoice {
	auth := mustAuth(c)

	voice, err := api.repo.GetVoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voice not found"})
			return nil
		}
		serverError(c, "Failed to load voice", err)
		return nil
	}

	if voice.UserID != auth.UID && !voice.IsShared && auth.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil
	}

	return voice
}

func (api *API) listVoices(c *gin.Context) {
	auth := mustAuth(c)

	voices, err := api.repo.ListVoicesForUser(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to list voices", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voices": voices})
}

type createVoiceRequest struct {
	Name         string   `json:"name" binding:"required"`
	CollectionID string   `json:"collection_id" binding:"required"`
	Badges       []string `json:"badges"`
}

// createVoice trains a new writing voice from a collection's
// transcripts. Training runs in the background; the voice starts in
// the pending state.
func (api *API) createVoice(c *gin.Context) {
	auth := mustAuth(c)

	var req createVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection := api.loadCollection(c, req.CollectionID)
	if collection == nil {
		return
	}

	videos, err := api.repo.ListVideosForUsers(c.Request.Context(), []string{collection.UserID}, database.VideoPage{
		Limit:        voiceSampleLimit,
		CollectionID: collection.ID,
	})
	if err != nil {
		serverError(c, "Failed to load collection videos", err)
		return
	}

	var transcripts []string
	for _, v := range videos {
		if v.Transcript != "" {
			transcripts = append(transcripts, v.Transcript)
		}
	}
	if len(transcripts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Collection has no transcribed videos"})
		return
	}

	if !api.chargeCredits(c, auth.UID, models.ActionVoiceTraining) {
		return
	}

	voice := &models.AIVoice{
		ID:             uuid.New().String(),
		UserID:         auth.UID,
		Name:           req.Name,
		Badges:         models.Badges(req.Badges),
		CreationStatus: models.VoiceStatusPending,
	}

	if err := api.repo.CreateVoice(c.Request.Context(), voice); err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionVoiceTraining)
		serverError(c, "Failed to create voice", err)
		return
	}

	go api.trainVoice(voice.ID, auth.UID, transcripts)

	c.JSON(http.StatusAccepted, voice)
}

// trainVoice generates the style description and flips the voice to
// ready, or failed with a refund.
func (api *API) trainVoice(voiceID, uid string, transcripts []string) {
	ctx, cancel := context.WithTimeout(context.Background(), voiceTrainingTimeout)
	defer cancel()

	description, err := api.ai.DescribeVoice(ctx, transcripts)
	if err != nil {
		api.log.WithError(err).WithUID(uid).Error("Voice training failed")
		if updErr := api.repo.UpdateVoiceStatus(ctx, voiceID, models.VoiceStatusFailed, ""); updErr != nil {
			api.log.WithError(updErr).Error("Failed to mark voice failed")
		}
		if refundErr := api.credits.Refund(ctx, uid, models.ActionVoiceTraining); refundErr != nil {
			api.log.WithError(refundErr).WithUID(uid).Error("Failed to refund credits")
		}
		return
	}

	if err := api.repo.UpdateVoiceStatus(ctx, voiceID, models.VoiceStatusReady, description); err != nil {
		api.log.WithError(err).Error("Failed to mark voice ready")
	}
}
