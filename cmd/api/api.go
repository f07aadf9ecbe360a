package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/internal/metrics"
	"github.com/gencapp/genc/internal/middleware"
	"github.com/gencapp/genc/internal/rbac"
	"github.com/gencapp/genc/pkg/models"
)

// Repo is the persistence surface the handlers use.
type Repo interface {
	// Profiles
	CreateProfile(ctx context.Context, p *models.UserProfile, password string) error
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	GetProfileByAPIKey(ctx context.Context, apiKey string) (*models.UserProfile, error)
	ListProfiles(ctx context.Context, limit, offset int) ([]*models.UserProfile, error)
	CountProfiles(ctx context.Context) (int, error)
	ListActiveCoachUIDs(ctx context.Context) ([]string, error)
	UpdateProfile(ctx context.Context, uid string, upd database.ProfileUpdate) error
	UpdateLastLogin(ctx context.Context, uid string, at time.Time) error
	DeleteProfile(ctx context.Context, uid string) error
	ActivateBrandProfile(ctx context.Context, uid string) error

	// Collections
	CreateCollection(ctx context.Context, c *models.Collection) error
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	ListCollectionsForUsers(ctx context.Context, userIDs []string) ([]*models.Collection, error)
	UpdateCollection(ctx context.Context, id string, upd database.CollectionUpdate) error
	DeleteCollection(ctx context.Context, id string) error

	// Videos
	CreateVideo(ctx context.Context, v *models.Video) error
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	ListVideosForUsers(ctx context.Context, userIDs []string, page database.VideoPage) ([]*models.Video, error)
	CountVideosForUsers(ctx context.Context, userIDs []string, collectionID string) (int, error)
	UpdateVideo(ctx context.Context, id string, upd database.VideoUpdate) error
	DeleteVideo(ctx context.Context, id string) error
	MoveVideo(ctx context.Context, id, targetCollectionID string) error
	CopyVideo(ctx context.Context, id, targetCollectionID string) (*models.Video, error)

	// Voices
	CreateVoice(ctx context.Context, v *models.AIVoice) error
	GetVoice(ctx context.Context, id string) (*models.AIVoice, error)
	ListVoicesForUser(ctx context.Context, uid string) ([]*models.AIVoice, error)
	UpdateVoiceStatus(ctx context.Context, id, status, description string) error

	// Notes
	CreateNote(ctx context.Context, n *models.Note) error
	GetNote(ctx context.Context, id string) (*models.Note, error)
	ListNotesForUser(ctx context.Context, uid string) ([]*models.Note, error)
	UpdateNote(ctx context.Context, id string, upd database.NoteUpdate) error
	DeleteNote(ctx context.Context, id string) error

	// Webhooks
	CreateWebhook(ctx context.Context, w *models.Webhook) error
	ListWebhooksForUser(ctx context.Context, uid string) ([]*models.Webhook, error)
	GetWebhook(ctx context.Context, id string) (*models.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error

	// Credits (admin)
	ResetCreditPeriod(ctx context.Context, uid string, periodStart time.Time) error
}

// CreditService enforces per-period credit limits.
type CreditService interface {
	Charge(ctx context.Context, uid, accountLevel string, action models.ActionKind) (int, error)
	Refund(ctx context.Context, uid string, action models.ActionKind) error
	Stats(ctx context.Context, uid, accountLevel string) (*models.UsageStats, error)
	ChangePlan(ctx context.Context, uid, accountLevel string) error
}

// ScriptAI is the generative surface the handlers use.
type ScriptAI interface {
	GenerateOptions(ctx context.Context, idea, length, voiceStyle string) (*models.ScriptOptions, error)
	Humanize(ctx context.Context, script string) (*models.GeneratedScript, error)
	Shorten(ctx context.Context, script string) (*models.GeneratedScript, error)
	GenerateHooks(ctx context.Context, idea string) ([]models.Hook, error)
	AnalyzeComponents(ctx context.Context, transcript string) (*models.ScriptComponents, error)
	DescribeVoice(ctx context.Context, transcripts []string) (string, error)
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// TranscriptionEnqueuer queues videos for async transcription. uid is
// the ledger that was charged and is refunded on terminal failure.
type TranscriptionEnqueuer interface {
	Enqueue(ctx context.Context, video *models.Video, uid string) error
}

// ObjectStorage stores uploaded voice audio.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetURL(ctx context.Context, objectName string) (string, error)
}

// VideoNotifier fires webhooks for video lifecycle events.
type VideoNotifier interface {
	NotifyVideoAdded(ctx context.Context, video *models.Video) error
}

// Pinger reports database health.
type Pinger interface {
	Health(ctx context.Context) error
}

// ContentCache is the redis surface the handlers use: hot profile and
// collection-list reads, invalidated on writes.
type ContentCache interface {
	Ping(ctx context.Context) error
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	SetProfile(ctx context.Context, profile *models.UserProfile, ttl time.Duration) error
	DeleteProfile(ctx context.Context, uid string) error
	GetCollections(ctx context.Context, uid string) ([]*models.Collection, error)
	SetCollections(ctx context.Context, uid string, collections []*models.Collection, ttl time.Duration) error
	DeleteCollections(ctx context.Context, uid string) error
}

// CDNStream mirrors remote videos into our stream library and purges
// copies when the video is deleted.
type CDNStream interface {
	LibraryID() string
	FetchVideo(ctx context.Context, remoteURL, title string) error
	DeleteVideo(ctx context.Context, videoID string) error
}

// QueueDepther reports the transcription queue backlog.
type QueueDepther interface {
	GetQueueDepth() (int, error)
}

// API bundles the dependencies of the HTTP handlers.
type API struct {
	repo           Repo
	resolver       *rbac.Resolver
	query          *rbac.Query
	credits        CreditService
	ai             ScriptAI
	transcriptions TranscriptionEnqueuer
	storage        ObjectStorage
	stream         CDNStream
	notifier       VideoNotifier
	auth           *middleware.Authenticator
	db             Pinger
	cache          ContentCache
	jobs           QueueDepther
	log            *logging.Logger
	cdnHostname    string
}

const (
	profileCacheTTL    = time.Minute
	collectionCacheTTL = time.Minute
)

// mustAuth returns the AuthResult; the auth middleware guarantees presence.
func mustAuth(c *gin.Context) *middleware.AuthResult {
	auth, _ := middleware.GetAuth(c)
	return auth
}

// getProfile reads a profile through the cache.
func (api *API) getProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	if api.cache != nil {
		if profile, err := api.cache.GetProfile(ctx, uid); err == nil && profile != nil {
			metrics.RecordCacheAccess("profile", true)
			return profile, nil
		}
		metrics.RecordCacheAccess("profile", false)
	}

	profile, err := api.repo.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}

	if api.cache != nil {
		if err := api.cache.SetProfile(ctx, profile, profileCacheTTL); err != nil {
			api.log.WithError(err).WithUID(uid).Warn("Failed to cache profile")
		}
	}
	return profile, nil
}

// invalidateProfile drops cached state for a user after a profile write.
func (api *API) invalidateProfile(ctx context.Context, uid string) {
	api.resolver.Invalidate(ctx, uid)
	if api.cache == nil {
		return
	}
	if err := api.cache.DeleteProfile(ctx, uid); err != nil {
		api.log.WithError(err).WithUID(uid).Warn("Failed to invalidate cached profile")
	}
}

// invalidateCollections drops a user's cached collection list after a write.
func (api *API) invalidateCollections(ctx context.Context, uid string) {
	if api.cache == nil {
		return
	}
	if err := api.cache.DeleteCollections(ctx, uid); err != nil {
		api.log.WithError(err).WithUID(uid).Warn("Failed to invalidate cached collections")
	}
}

// serverError responds with the catch-all 500 shape.
func serverError(c *gin.Context, summary string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   summary,
		"details": err.Error(),
	})
}
