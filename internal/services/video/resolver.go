// Package video resolves freeform video URLs into a platform and video ID.
//
// Resolution is a pure function over an ordered pattern table: the first
// pattern that matches wins and its first capture group is the ID.
package video

import (
	"regexp"
	"strings"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// pattern is one row of the resolution table.
type pattern struct {
	platform models.Platform
	re       *regexp.Regexp
}

// patterns is evaluated top to bottom.
var patterns = []pattern{
	{models.PlatformYouTube, regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`)},
	{models.PlatformYouTube, regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)},
	{models.PlatformYouTube, regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]+)`)},
	{models.PlatformYouTube, regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]+)`)},
	{models.PlatformYouTube, regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]+)`)},
	{models.PlatformInstagram, regexp.MustCompile(`instagram\.com/reels?/([a-zA-Z0-9_-]+)`)},
	{models.PlatformInstagram, regexp.MustCompile(`instagram\.com/p/([a-zA-Z0-9_-]+)`)},
}

// Resolve parses url and identifies its platform and video ID.
// It never fails: input that matches no pattern yields PlatformUnknown with an empty ID.
func Resolve(url string) models.VideoReference {
	trimmed := strings.TrimSpace(url)
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(trimmed)
		if len(m) >= 2 && m[1] != "" {
			return models.VideoReference{
				Platform:    p.platform,
				ID:          m[1],
				OriginalURL: url,
			}
		}
	}
	return models.VideoReference{Platform: models.PlatformUnknown, OriginalURL: url}
}

// HasMetadataAPI reports whether a public metadata API exists for the platform.
func HasMetadataAPI(p models.Platform) bool {
	return p == models.PlatformYouTube
}

// CanonicalURL returns the canonical watch URL for a resolved reference,
// or the original URL when no canonical form is known.
func CanonicalURL(ref models.VideoReference) string {
	switch ref.Platform {
	case models.PlatformYouTube:
		return "https://www.youtube.com/watch?v=" + ref.ID
	case models.PlatformInstagram:
		return "https://www.instagram.com/reel/" + ref.ID + "/"
	default:
		return ref.OriginalURL
	}
}
