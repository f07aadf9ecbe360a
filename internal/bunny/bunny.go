package bunny

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// VideoRef identifies a video within a Bunny Stream library.
type VideoRef struct {
	LibraryID string
	VideoID   string
}

var (
	// Embed and play URLs: https://iframe.mediadelivery.net/embed/{lib}/{guid}
	mediaDeliveryRe = regexp.MustCompile(`^/(?:embed|play)/(\d+)/([0-9a-fA-F-]{36})/?$`)

	// Direct play hosts: https://video.bunnycdn.com/play/{lib}/{guid}
	directPlayRe = regexp.MustCompile(`^/play/(\d+)/([0-9a-fA-F-]{36})/?$`)
)

// ParseVideoURL extracts the library and video IDs from a Bunny embed or
// play URL. Returns an error for anything that is not a Bunny video URL.
func ParseVideoURL(raw string) (*VideoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	var m []string
	switch u.Hostname() {
	case "iframe.mediadelivery.net":
		m = mediaDeliveryRe.FindStringSubmatch(u.Path)
	case "video.bunnycdn.com":
		m = directPlayRe.FindStringSubmatch(u.Path)
	default:
		return nil, fmt.Errorf("not a bunny video URL: %s", raw)
	}

	if m == nil {
		return nil, fmt.Errorf("unrecognized bunny URL path: %s", u.Path)
	}

	return &VideoRef{
		LibraryID: m[1],
		VideoID:   strings.ToLower(m[2]),
	}, nil
}

// IframeURL builds the canonical embed URL for a video. The result
// round-trips through ParseVideoURL.
func IframeURL(libraryID, videoID string) string {
	return fmt.Sprintf("https://iframe.mediadelivery.net/embed/%s/%s", libraryID, strings.ToLower(videoID))
}

// PlayURL builds the hosted player URL for a video.
func PlayURL(libraryID, videoID string) string {
	return fmt.Sprintf("https://iframe.mediadelivery.net/play/%s/%s", libraryID, strings.ToLower(videoID))
}

// ThumbnailURL builds the CDN thumbnail URL for a video.
func ThumbnailURL(cdnHostname, videoID string) string {
	return fmt.Sprintf("https://%s/%s/thumbnail.jpg", cdnHostname, strings.ToLower(videoID))
}

// IsVideoURL reports whether the URL looks like a Bunny video URL.
func IsVideoURL(raw string) bool {
	_, err := ParseVideoURL(raw)
	return err == nil
}
