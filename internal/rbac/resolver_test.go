package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/pkg/models"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *mockProfileStore) ListActiveCoachUIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "console", Output: "stderr"})
	assert.NoError(t, err)
	return log
}

func TestAccessibleCoaches(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.UserProfile
		coaches []string
		want    []string
	}{
		{
			name: "Super admin sees all active coaches",
			profile: &models.UserProfile{
				UID:      "admin-1",
				Role:     models.RoleSuperAdmin,
				IsActive: true,
			},
			coaches: []string{"coach-1", "coach-2"},
			want:    []string{"coach-1", "coach-2"},
		},
		{
			name: "Coach sees own library",
			profile: &models.UserProfile{
				UID:      "coach-1",
				Role:     models.RoleCoach,
				IsActive: true,
			},
			want: []string{"coach-1"},
		},
		{
			name: "Creator sees assigned coach",
			profile: &models.UserProfile{
				UID:      "creator-1",
				Role:     models.RoleCreator,
				CoachID:  "coach-2",
				IsActive: true,
			},
			want: []string{"coach-2"},
		},
		{
			name: "Creator without coach has empty scope",
			profile: &models.UserProfile{
				UID:      "creator-2",
				Role:     models.RoleCreator,
				IsActive: true,
			},
			want: []string{},
		},
		{
			name: "Deactivated profile has empty scope",
			profile: &models.UserProfile{
				UID:      "coach-3",
				Role:     models.RoleCoach,
				IsActive: false,
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(mockProfileStore)
			profiles.On("GetProfile", mock.Anything, tt.profile.UID).Return(tt.profile, nil)
			if tt.coaches != nil {
				profiles.On("ListActiveCoachUIDs", mock.Anything).Return(tt.coaches, nil)
			}

			resolver := NewResolver(profiles, nil, testLogger(t))
			scope, err := resolver.AccessibleCoaches(context.Background(), tt.profile.UID)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, scope)
		})
	}
}

func TestAccessibleCoachesMissingProfile(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "ghost").Return(nil, database.ErrNotFound)

	resolver := NewResolver(profiles, nil, testLogger(t))
	scope, err := resolver.AccessibleCoaches(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Empty(t, scope)
}

func TestCanRead(t *testing.T) {
	profiles := new(mockProfileStore)
	profiles.On("GetProfile", mock.Anything, "creator-1").Return(&models.UserProfile{
		UID:      "creator-1",
		Role:     models.RoleCreator,
		CoachID:  "coach-1",
		IsActive: true,
	}, nil)

	resolver := NewResolver(profiles, nil, testLogger(t))

	ok, err := resolver.CanRead(context.Background(), "creator-1", "coach-1")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = resolver.CanRead(context.Background(), "creator-1", "coach-9")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Own content is always readable, no scope lookup needed
	ok, err = resolver.CanRead(context.Background(), "creator-1", "creator-1")
	assert.NoError(t, err)
	assert.True(t, ok)
}
