package rbac

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

type mockContentStore struct {
	mock.Mock
}

func (m *mockContentStore) ListCollectionsForUsers(ctx context.Context, userIDs []string) ([]*models.Collection, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *mockContentStore) ListVideosForUsers(ctx context.Context, userIDs []string, page database.VideoPage) ([]*models.Video, error) {
	args := m.Called(ctx, userIDs, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Video), args.Error(1)
}

func (m *mockContentStore) CountVideosForUsers(ctx context.Context, userIDs []string, collectionID string) (int, error) {
	args := m.Called(ctx, userIDs, collectionID)
	return args.Int(0), args.Error(1)
}

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 589793, time.UTC)

	cursor := EncodeCursor(at, "video-42")
	gotTime, gotID, err := DecodeCursor(cursor)

	assert.NoError(t, err)
	assert.True(t, at.Equal(gotTime))
	assert.Equal(t, "video-42", gotID)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	tests := []string{
		"not base64!!",
		"bm9jb2xvbg",       // "nocolon"
		"MTIzNDU2Og",       // "123456:" empty id
		"YWJjOnZpZGVvLTE",  // "abc:video-1" non-numeric timestamp
	}

	for _, cursor := range tests {
		_, _, err := DecodeCursor(cursor)
		assert.Error(t, err, "cursor %q", cursor)
	}
}

func TestGetUserCollectionsScoped(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "coach-1").Return(&models.UserProfile{
		UID:      "coach-1",
		Role:     models.RoleCoach,
		IsActive: true,
	}, nil)

	content := new(mockContentStore)
	content.On("ListCollectionsForUsers", mock.Anything, []string{"coach-1"}).Return([]*models.Collection{
		{ID: "col-1", Title: "Hooks that convert", UserID: "coach-1"},
	}, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), content)
	collections, err := q.GetUserCollections(context.Background(), "coach-1")

	assert.NoError(t, err)
	assert.Len(t, collections, 1)
	assert.Equal(t, "col-1", collections[0].ID)
}

func TestGetUserCollectionsCreatorSeesOwnAndCoach(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "creator-1").Return(&models.UserProfile{
		UID:      "creator-1",
		Role:     models.RoleCreator,
		CoachID:  "coach-1",
		IsActive: true,
	}, nil)

	content := new(mockContentStore)
	content.On("ListCollectionsForUsers", mock.Anything, []string{"creator-1", "coach-1"}).Return([]*models.Collection{
		{ID: "col-own", UserID: "creator-1"},
		{ID: "col-coach", UserID: "coach-1"},
	}, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), content)
	collections, err := q.GetUserCollections(context.Background(), "creator-1")

	assert.NoError(t, err)
	assert.Len(t, collections, 2)
}

func TestGetUserCollectionsEmptyScope(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "ghost").Return(nil, database.ErrNotFound)

	// A missing profile still queries the uid itself, which matches nothing.
	content := new(mockContentStore)
	content.On("ListCollectionsForUsers", mock.Anything, []string{"ghost"}).Return([]*models.Collection{}, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), content)
	collections, err := q.GetUserCollections(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Empty(t, collections)
}

func TestGetCollectionVideosPagination(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "coach-1").Return(&models.UserProfile{
		UID:      "coach-1",
		Role:     models.RoleCoach,
		IsActive: true,
	}, nil)

	now := time.Now().UTC().Truncate(time.Microsecond)
	fullPage := []*models.Video{
		{ID: "v1", UpdatedAt: now},
		{ID: "v2", UpdatedAt: now.Add(-time.Minute)},
	}

	content := new(mockContentStore)
	content.On("ListVideosForUsers", mock.Anything, []string{"coach-1"}, database.VideoPage{
		Limit:        2,
		CollectionID: "col-1",
	}).Return(fullPage, nil)
	content.On("CountVideosForUsers", mock.Anything, []string{"coach-1"}, "col-1").Return(5, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), content)
	page, err := q.GetCollectionVideos(context.Background(), "coach-1", "col-1", 2, "")

	assert.NoError(t, err)
	assert.Len(t, page.Videos, 2)
	assert.Equal(t, 5, page.TotalCount)
	assert.NotEmpty(t, page.NextCursor)

	// The cursor points at the last row of the page
	cursorTime, cursorID, err := DecodeCursor(page.NextCursor)
	assert.NoError(t, err)
	assert.Equal(t, "v2", cursorID)
	assert.True(t, fullPage[1].UpdatedAt.Equal(cursorTime))
}

func TestGetCollectionVideosLastPage(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "coach-1").Return(&models.UserProfile{
		UID:      "coach-1",
		Role:     models.RoleCoach,
		IsActive: true,
	}, nil)

	content := new(mockContentStore)
	content.On("ListVideosForUsers", mock.Anything, mock.Anything, mock.Anything).Return([]*models.Video{
		{ID: "v3", UpdatedAt: time.Now()},
	}, nil)
	content.On("CountVideosForUsers", mock.Anything, mock.Anything, mock.Anything).Return(3, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), content)
	page, err := q.GetCollectionVideos(context.Background(), "coach-1", "", 2, "")

	assert.NoError(t, err)
	assert.Len(t, page.Videos, 1)
	assert.Empty(t, page.NextCursor)
}

func TestGetCollectionVideosInvalidCursor(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "coach-1").Return(&models.UserProfile{
		UID:      "coach-1",
		Role:     models.RoleCoach,
		IsActive: true,
	}, nil)

	q := NewQuery(NewResolver(profiles, nil, testLogger(t)), new(mockContentStore))
	_, err := q.GetCollectionVideos(context.Background(), "coach-1", "", 10, "%%%")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cursor")
}
