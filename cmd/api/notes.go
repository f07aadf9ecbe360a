package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

func (api *API) listNotes(c *gin.Context) {
	auth := mustAuth(c)

	notes, err := api.repo.ListNotesForUser(c.Request.Context(), auth.UID)
	if err != nil {
		serverError(c, "Failed to list notes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

type createNoteRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (api *API) createNote(c *gin.Context) {
	auth := mustAuth(c)

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := &models.Note{
		ID:      uuid.New().String(),
		UserID:  auth.UID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    models.Tags(req.Tags),
	}

	if err := api.repo.CreateNote(c.Request.Context(), note); err != nil {
		serverError(c, "Failed to create note", err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// loadNote fetches a note owned by the caller. Notes are private; no
// coach/creator sharing applies.
func (api *API) loadNote(c *gin.Context, id string) *models.Note {
	auth := mustAuth(c)

	note, err := api.repo.GetNote(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
			return nil
		}
		serverError(c, "Failed to load note", err)
		return nil
	}

	if note.UserID != auth.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil
	}

	return note
}

func (api *API) getNote(c *gin.Context) {
	note := api.loadNote(c, c.Param("id"))
	if note == nil {
		return
	}
	c.JSON(http.StatusOK, note)
}

type updateNoteRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Starred *bool     `json:"starred"`
}

func (api *API) updateNote(c *gin.Context) {
	note := api.loadNote(c, c.Param("id"))
	if note == nil {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := database.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
		Starred: req.Starred,
	}
	if req.Tags != nil {
		tags := models.Tags(*req.Tags)
		upd.Tags = &tags
	}

	if err := api.repo.UpdateNote(c.Request.Context(), note.ID, upd); err != nil {
		serverError(c, "Failed to update note", err)
		return
	}

	updated, err := api.repo.GetNote(c.Request.Context(), note.ID)
	if err != nil {
		serverError(c, "Failed to load note", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (api *API) deleteNote(c *gin.Context) {
	note := api.loadNote(c, c.Param("id"))
	if note == nil {
		return
	}

	if err := api.repo.DeleteNote(c.Request.Context(), note.ID); err != nil {
		serverError(c, "Failed to delete note", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
