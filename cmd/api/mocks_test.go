package main

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

// MockRepo mocks the persistence layer for handler tests. It also
// satisfies the rbac store interfaces so the same instance backs the
// resolver and query service.
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateProfile(ctx context.Context, p *models.UserProfile, password string) error {
	args := m.Called(ctx, p, password)
	return args.Error(0)
}

func (m *MockRepo) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockRepo) GetProfileByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockRepo) GetProfileByAPIKey(ctx context.Context, apiKey string) (*models.UserProfile, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockRepo) ListProfiles(ctx context.Context, limit, offset int) ([]*models.UserProfile, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserProfile), args.Error(1)
}

func (m *MockRepo) CountProfiles(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) ListActiveCoachUIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepo) UpdateProfile(ctx context.Context, uid string, upd database.ProfileUpdate) error {
	args := m.Called(ctx, uid, upd)
	return args.Error(0)
}

func (m *MockRepo) UpdateLastLogin(ctx context.Context, uid string, at time.Time) error {
	args := m.Called(ctx, uid, at)
	return args.Error(0)
}

func (m *MockRepo) DeleteProfile(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockRepo) ActivateBrandProfile(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockRepo) CreateCollection(ctx context.Context, c *models.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepo) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockRepo) ListCollectionsForUsers(ctx context.Context, userIDs []string) ([]*models.Collection, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *MockRepo) UpdateCollection(ctx context.Context, id string, upd database.CollectionUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockRepo) DeleteCollection(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) CreateVideo(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepo) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockRepo) ListVideosForUsers(ctx context.Context, userIDs []string, page database.VideoPage) ([]*models.Video, error) {
	args := m.Called(ctx, userIDs, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *MockRepo) CountVideosForUsers(ctx context.Context, userIDs []string, collectionID string) (int, error) {
	args := m.Called(ctx, userIDs, collectionID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) UpdateVideo(ctx context.Context, id string, upd database.VideoUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockRepo) DeleteVideo(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) MoveVideo(ctx context.Context, id, targetCollectionID string) error {
	args := m.Called(ctx, id, targetCollectionID)
	return args.Error(0)
}

func (m *MockRepo) CopyVideo(ctx context.Context, id, targetCollectionID string) (*models.Video, error) {
	args := m.Called(ctx, id, targetCollectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockRepo) CreateVoice(ctx context.Context, v *models.AIVoice) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockRepo) GetVoice(ctx context.Context, id string) (*models.AIVoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIVoice), args.Error(1)
}

func (m *MockRepo) ListVoicesForUser(ctx context.Context, uid string) ([]*models.AIVoice, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AIVoice), args.Error(1)
}

func (m *MockRepo) UpdateVoiceStatus(ctx context.Context, id, status, description string) error {
	args := m.Called(ctx, id, status, description)
	return args.Error(0)
}

func (m *MockRepo) CreateNote(ctx context.Context, n *models.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockRepo) GetNote(ctx context.Context, id string) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockRepo) ListNotesForUser(ctx context.Context, uid string) ([]*models.Note, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockRepo) UpdateNote(ctx context.Context, id string, upd database.NoteUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockRepo) DeleteNote(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) CreateWebhook(ctx context.Context, w *models.Webhook) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockRepo) ListWebhooksForUser(ctx context.Context, uid string) ([]*models.Webhook, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Webhook), args.Error(1)
}

func (m *MockRepo) GetWebhook(ctx context.Context, id string) (*models.Webhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Webhook), args.Error(1)
}

func (m *MockRepo) DeleteWebhook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) ResetCreditPeriod(ctx context.Context, uid string, periodStart time.Time) error {
	args := m.Called(ctx, uid, periodStart)
	return args.Error(0)
}

type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) Charge(ctx context.Context, uid, accountLevel string, action models.ActionKind) (int, error) {
	args := m.Called(ctx, uid, accountLevel, action)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditService) Refund(ctx context.Context, uid string, action models.ActionKind) error {
	args := m.Called(ctx, uid, action)
	return args.Error(0)
}

func (m *MockCreditService) Stats(ctx context.Context, uid, accountLevel string) (*models.UsageStats, error) {
	args := m.Called(ctx, uid, accountLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UsageStats), args.Error(1)
}

func (m *MockCreditService) ChangePlan(ctx context.Context, uid, accountLevel string) error {
	args := m.Called(ctx, uid, accountLevel)
	return args.Error(0)
}

type MockScriptAI struct {
	mock.Mock
}

func (m *MockScriptAI) GenerateOptions(ctx context.Context, idea, length, voiceStyle string) (*models.ScriptOptions, error) {
	args := m.Called(ctx, idea, length, voiceStyle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptOptions), args.Error(1)
}

func (m *MockScriptAI) Humanize(ctx context.Context, script string) (*models.GeneratedScript, error) {
	args := m.Called(ctx, script)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedScript), args.Error(1)
}

func (m *MockScriptAI) Shorten(ctx context.Context, script string) (*models.GeneratedScript, error) {
	args := m.Called(ctx, script)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeneratedScript), args.Error(1)
}

func (m *MockScriptAI) GenerateHooks(ctx context.Context, idea string) ([]models.Hook, error) {
	args := m.Called(ctx, idea)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hook), args.Error(1)
}

func (m *MockScriptAI) AnalyzeComponents(ctx context.Context, transcript string) (*models.ScriptComponents, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScriptComponents), args.Error(1)
}

func (m *MockScriptAI) DescribeVoice(ctx context.Context, transcripts []string) (string, error) {
	args := m.Called(ctx, transcripts)
	return args.String(0), args.Error(1)
}

func (m *MockScriptAI) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	args := m.Called(ctx, audio, mimeType)
	return args.String(0), args.Error(1)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, video *models.Video, uid string) error {
	args := m.Called(ctx, video, uid)
	return args.Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) GetURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyVideoAdded(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockCache) SetProfile(ctx context.Context, profile *models.UserProfile, ttl time.Duration) error {
	args := m.Called(ctx, profile, ttl)
	return args.Error(0)
}

func (m *MockCache) DeleteProfile(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockCache) GetCollections(ctx context.Context, uid string) ([]*models.Collection, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *MockCache) SetCollections(ctx context.Context, uid string, collections []*models.Collection, ttl time.Duration) error {
	args := m.Called(ctx, uid, collections, ttl)
	return args.Error(0)
}

func (m *MockCache) DeleteCollections(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

type MockStream struct {
	mock.Mock
}

func (m *MockStream) LibraryID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStream) FetchVideo(ctx context.Context, remoteURL, title string) error {
	args := m.Called(ctx, remoteURL, title)
	return args.Error(0)
}

func (m *MockStream) DeleteVideo(ctx context.Context, videoID string) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

type MockQueueDepther struct {
	mock.Mock
}

func (m *MockQueueDepther) GetQueueDepth() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
