package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gencapp/genc/pkg/models"
)

type generateScriptRequest struct {
	Idea    string `json:"idea" binding:"required"`
	Length  string `json:"length"`
	VoiceID string `json:"voice_id"`
}

// generateScripts returns two script options for an idea, optionally
// styled after a trained voice.
func (api *API) generateScripts(c *gin.Context) {
	auth := mustAuth(c)

	var req generateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Length == "" {
		req.Length = models.ScriptLength60
	}
	switch req.Length {
	case models.ScriptLength20, models.ScriptLength60, models.ScriptLength90:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid length"})
		return
	}

	var voiceStyle string
	if req.VoiceID != "" {
		voice := api.loadVoice(c, req.VoiceID)
		if voice == nil {
			return
		}
		if voice.CreationStatus != models.VoiceStatusReady {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Voice is not ready"})
			return
		}
		voiceStyle = voice.Description
	}

	if !api.chargeCredits(c, auth.UID, models.ActionScriptGeneration) {
		return
	}

	options, err := api.ai.GenerateOptions(c.Request.Context(), req.Idea, req.Length, voiceStyle)
	if err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionScriptGeneration)
		serverError(c, "Failed to generate scripts", err)
		return
	}

	c.JSON(http.StatusOK, options)
}

type refineScriptRequest struct {
	Script string `json:"script" binding:"required"`
}

func (api *API) humanizeScript(c *gin.Context) {
	api.refineScript(c, "Failed to humanize script", api.ai.Humanize)
}

func (api *API) shortenScript(c *gin.Context) {
	api.refineScript(c, "Failed to shorten script", api.ai.Shorten)
}

// refineScript charges a refinement credit and applies one of the
// single-script rewrite operations.
func (api *API) refineScript(c *gin.Context, summary string, refine func(context.Context, string) (*models.GeneratedScript, error)) {
	auth := mustAuth(c)

	var req refineScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !api.chargeCredits(c, auth.UID, models.ActionScriptRefinement) {
		return
	}

	script, err := refine(c.Request.Context(), req.Script)
	if err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionScriptRefinement)
		serverError(c, summary, err)
		return
	}

	c.JSON(http.StatusOK, script)
}

type generateHooksRequest struct {
	Idea string `json:"idea" binding:"required"`
}

func (api *API) generateHooks(c *gin.Context) {
	auth := mustAuth(c)

	var req generateHooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !api.chargeCredits(c, auth.UID, models.ActionScriptGeneration) {
		return
	}

	hooks, err := api.ai.GenerateHooks(c.Request.Context(), req.Idea)
	if err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionScriptGeneration)
		serverError(c, "Failed to generate hooks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hooks": hooks})
}

type analyzeScriptRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// analyzeScript breaks a transcript into its structural components.
func (api *API) analyzeScript(c *gin.Context) {
	auth := mustAuth(c)

	var req analyzeScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !api.chargeCredits(c, auth.UID, models.ActionScriptRefinement) {
		return
	}

	components, err := api.ai.AnalyzeComponents(c.Request.Context(), req.Transcript)
	if err != nil {
		api.refundAfterFailure(c, auth.UID, models.ActionScriptRefinement)
		serverError(c, "Failed to analyze script", err)
		return
	}

	c.JSON(http.StatusOK, components)
}

// refundAfterFailure returns credits charged for an operation that
// failed after the charge.
func (api *API) refundAfterFailure(c *gin.Context, uid string, action models.ActionKind) {
	if err := api.credits.Refund(c.Request.Context(), uid, action); err != nil {
		api.log.WithError(err).WithUID(uid).Error("Failed to refund credits")
	}
}
