package rbac

import (
	"context"
	"errors"
	"time"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/internal/logging"
	"github.com/gencapp/genc/pkg/models"
)

const scopeTTL = 5 * time.Minute

// ProfileStore provides the profile lookups the resolver needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	ListActiveCoachUIDs(ctx context.Context) ([]string, error)
}

// ScopeCache caches resolved access scopes.
type ScopeCache interface {
	GetAccessScope(ctx context.Context, uid string) ([]string, bool, error)
	SetAccessScope(ctx context.Context, uid string, coaches []string, ttl time.Duration) error
	DeleteAccessScope(ctx context.Context, uid string) error
}

// Resolver computes which coach libraries a user may read.
type Resolver struct {
	profiles ProfileStore
	cache    ScopeCache
	log      *logging.Logger
}

// NewResolver creates a Resolver. The cache may be nil.
func NewResolver(profiles ProfileStore, cache ScopeCache, log *logging.Logger) *Resolver {
	return &Resolver{
		profiles: profiles,
		cache:    cache,
		log:      log,
	}
}

// AccessibleCoaches returns the coach UIDs whose content the user may read.
// Super admins see every active coach, coaches see themselves, creators see
// their assigned coach. Missing or deactivated profiles resolve to an empty
// scope rather than an error so callers degrade to empty listings.
func (r *Resolver) AccessibleCoaches(ctx context.Context, uid string) ([]string, error) {
	if r.cache != nil {
		if scope, found, err := r.cache.GetAccessScope(ctx, uid); err == nil && found {
			return scope, nil
		}
	}

	scope, err := r.resolve(ctx, uid)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetAccessScope(ctx, uid, scope, scopeTTL); err != nil {
			r.log.WithError(err).Warn("Failed to cache access scope")
		}
	}

	return scope, nil
}

func (r *Resolver) resolve(ctx context.Context, uid string) ([]string, error) {
	profile, err := r.profiles.GetProfile(ctx, uid)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	if !profile.IsActive {
		return []string{}, nil
	}

	switch profile.Role {
	case models.RoleSuperAdmin:
		coaches, err := r.profiles.ListActiveCoachUIDs(ctx)
		if err != nil {
			return nil, err
		}
		return coaches, nil
	case models.RoleCoach:
		return []string{uid}, nil
	case models.RoleCreator:
		if profile.CoachID == "" {
			return []string{}, nil
		}
		return []string{profile.CoachID}, nil
	default:
		return []string{}, nil
	}
}

// Invalidate drops the cached scope for a user, e.g. after a role change.
func (r *Resolver) Invalidate(ctx context.Context, uid string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.DeleteAccessScope(ctx, uid); err != nil {
		r.log.WithError(err).Warn("Failed to invalidate access scope")
	}
}

// CanRead reports whether the user's scope covers content owned by ownerUID.
// Users always read their own content.
func (r *Resolver) CanRead(ctx context.Context, uid, ownerUID string) (bool, error) {
	if uid == ownerUID {
		return true, nil
	}

	scope, err := r.AccessibleCoaches(ctx, uid)
	if err != nil {
		return false, err
	}
	for _, coach := range scope {
		if coach == ownerUID {
			return true, nil
		}
	}
	return false, nil
}
