package rbac

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gencapp/genc/internal/database"
	"github.com/gencapp/genc/pkg/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ContentStore provides the scoped listing queries.
type ContentStore interface {
	ListCollectionsForUsers(ctx context.Context, userIDs []string) ([]*models.Collection, error)
	ListVideosForUsers(ctx context.Context, userIDs []string, page database.VideoPage) ([]*models.Video, error)
	CountVideosForUsers(ctx context.Context, userIDs []string, collectionID string) (int, error)
}

// VideoPageResult is one page of a scoped video listing.
type VideoPageResult struct {
	Videos     []*models.Video `json:"videos"`
	NextCursor string          `json:"nextCursor,omitempty"`
	TotalCount int             `json:"totalCount"`
}

// Query answers content reads through the caller's access scope.
type Query struct {
	resolver *Resolver
	content  ContentStore
}

// NewQuery creates a Query service.
func NewQuery(resolver *Resolver, content ContentStore) *Query {
	return &Query{
		resolver: resolver,
		content:  content,
	}
}

// GetUserCollections lists every collection visible to the user: their
// own plus everything in their coach scope.
func (q *Query) GetUserCollections(ctx context.Context, uid string) ([]*models.Collection, error) {
	users, err := q.visibleUsers(ctx, uid)
	if err != nil {
		return nil, err
	}
	return q.content.ListCollectionsForUsers(ctx, users)
}

// visibleUsers returns uid plus the resolved coach scope, deduplicated.
func (q *Query) visibleUsers(ctx context.Context, uid string) ([]string, error) {
	scope, err := q.resolver.AccessibleCoaches(ctx, uid)
	if err != nil {
		return nil, err
	}

	users := []string{uid}
	for _, coach := range scope {
		if coach != uid {
			users = append(users, coach)
		}
	}
	return users, nil
}

// GetCollectionVideos lists one page of videos visible to the user,
// optionally restricted to a single collection. An empty collectionID
// means the whole library.
func (q *Query) GetCollectionVideos(ctx context.Context, uid, collectionID string, limit int, cursor string) (*VideoPageResult, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	users, err := q.visibleUsers(ctx, uid)
	if err != nil {
		return nil, err
	}

	page := database.VideoPage{
		Limit:        limit,
		CollectionID: collectionID,
	}
	if cursor != "" {
		cursorTime, cursorID, err := DecodeCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		page.CursorTime = &cursorTime
		page.CursorID = cursorID
	}

	videos, err := q.content.ListVideosForUsers(ctx, users, page)
	if err != nil {
		return nil, err
	}

	total, err := q.content.CountVideosForUsers(ctx, users, collectionID)
	if err != nil {
		return nil, err
	}

	result := &VideoPageResult{
		Videos:     videos,
		TotalCount: total,
	}
	if len(videos) == limit {
		last := videos[len(videos)-1]
		result.NextCursor = EncodeCursor(last.UpdatedAt, last.ID)
	}

	return result, nil
}

// EncodeCursor packs a keyset position into an opaque page token.
func EncodeCursor(updatedAt time.Time, id string) string {
	raw := fmt.Sprintf("%d:%s", updatedAt.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor unpacks a page token produced by EncodeCursor.
func DecodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", err
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor timestamp")
	}

	return time.Unix(0, nanos).UTC(), parts[1], nil
}
