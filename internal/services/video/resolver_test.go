package video

import (
	"testing"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// TestResolve covers every supported URL form plus non-matching input.
func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantPlatform models.Platform
		wantID       string
	}{
		{
			name:         "youtube watch page",
			input:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantPlatform: models.PlatformYouTube,
			wantID:       "dQw4w9WgXcQ",
		},
		{
			name:         "youtube watch page with extra params",
			input:        "https://youtube.com/watch?v=dQw4w9WgXcQ&list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
			wantPlatform: models.PlatformYouTube,
			wantID:       "dQw4w9WgXcQ",
		},
		{
			name:         "youtu.be short link",
			input:        "https://youtu.be/dQw4w9WgXcQ?si=abc",
			wantPlatform: models.PlatformYouTube,
			wantID:       "dQw4w9WgXcQ",
		},
		{
			name:         "youtube embed",
			input:        "https://www.youtube.com/embed/dQw4w9WgXcQ",
			wantPlatform: models.PlatformYouTube,
			wantID:       "dQw4w9WgXcQ",
		},
		{
			name:         "youtube legacy v path",
			input:        "https://www.youtube.com/v/dQw4w9WgXcQ",
			wantPlatform: models.PlatformYouTube,
			wantID:       "dQw4w9WgXcQ",
		},
		{
			name:         "youtube shorts",
			input:        "https://www.youtube.com/shorts/pasta_123",
			wantPlatform: models.PlatformYouTube,
			wantID:       "pasta_123",
		},
		{
			name:         "instagram reel",
			input:        "https://www.instagram.com/reel/C1a2B3c4D5e/",
			wantPlatform: models.PlatformInstagram,
			wantID:       "C1a2B3c4D5e",
		},
		{
			name:         "instagram reels plural",
			input:        "https://www.instagram.com/reels/samosa/",
			wantPlatform: models.PlatformInstagram,
			wantID:       "samosa",
		},
		{
			name:         "instagram post",
			input:        "https://instagram.com/p/Cx-y_Z/",
			wantPlatform: models.PlatformInstagram,
			wantID:       "Cx-y_Z",
		},
		{
			name:         "surrounding whitespace",
			input:        "  https://youtu.be/abcDEF12345  ",
			wantPlatform: models.PlatformYouTube,
			wantID:       "abcDEF12345",
		},

		// Unknown input never errors.
		{name: "empty string", input: "", wantPlatform: models.PlatformUnknown},
		{name: "random URL", input: "https://www.google.com", wantPlatform: models.PlatformUnknown},
		{name: "youtube channel page", input: "https://www.youtube.com/@chef", wantPlatform: models.PlatformUnknown},
		{name: "bare video id", input: "dQw4w9WgXcQ", wantPlatform: models.PlatformUnknown},
		{name: "tiktok", input: "https://www.tiktok.com/@user/video/1234567890", wantPlatform: models.PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.input)
			if got.Platform != tt.wantPlatform {
				t.Errorf("Resolve(%q) platform = %q, want %q", tt.input, got.Platform, tt.wantPlatform)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve(%q) ID = %q, want %q", tt.input, got.ID, tt.wantID)
			}
			if got.OriginalURL != tt.input {
				t.Errorf("Resolve(%q) OriginalURL = %q", tt.input, got.OriginalURL)
			}
			// ID is non-empty exactly when the platform is known.
			if (got.ID != "") != (got.Platform != models.PlatformUnknown) {
				t.Errorf("Resolve(%q) = %+v violates id/platform invariant", tt.input, got)
			}
		})
	}
}

func TestResolveFirstPatternWins(t *testing.T) {
	// An embed URL carrying a watch query resolves via the watch pattern.
	got := Resolve("https://www.youtube.com/watch?v=first111111&feature=youtu.be/second22222")
	if got.ID != "first111111" {
		t.Errorf("Resolve() ID = %q, want %q", got.ID, "first111111")
	}
}

func TestHasMetadataAPI(t *testing.T) {
	if !HasMetadataAPI(models.PlatformYouTube) {
		t.Error("expected YouTube to have a metadata API")
	}
	if HasMetadataAPI(models.PlatformInstagram) || HasMetadataAPI(models.PlatformUnknown) {
		t.Error("expected only YouTube to have a metadata API")
	}
}

func TestCanonicalURL(t *testing.T) {
	ref := Resolve("https://youtu.be/dQw4w9WgXcQ")
	if got := CanonicalURL(ref); got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("CanonicalURL() = %q", got)
	}
	unknown := Resolve("https://example.com/video")
	if got := CanonicalURL(unknown); got != "https://example.com/video" {
		t.Errorf("CanonicalURL() = %q", got)
	}
}
