// Package youtube fetches video metadata from the YouTube Data API v3.
//
// The client makes exactly one attempt per request and maps HTTP statuses to
// the pipeline error kinds: 403 is quota exhaustion, anything else non-200 is
// an unavailable upstream. Retrying is left to the caller.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// DefaultBaseURL is the public Data API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// thumbnailPriority lists thumbnail keys from highest to lowest resolution.
var thumbnailPriority = []string{"maxres", "high", "medium", "standard", "default"}

// Client is safe for concurrent use; all fields are read-only after New.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit spaces out requests to conserve the daily API quota.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a Data API client. Callers should not construct a client
// without an API key; a missing key means the platform API is not configured.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Data API response types ---

type videoListResponse struct {
	Items []struct {
		Snippet *struct {
			Description *string `json:"description"`
			Thumbnails  map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type captionListResponse struct {
	Items []struct {
		Snippet struct {
			ID       string `json:"id"`
			Language string `json:"language"`
			Name     string `json:"name"`
		} `json:"snippet"`
	} `json:"items"`
}

// CaptionTrack is one subtitle stream attached to a video.
type CaptionTrack struct {
	ID       string
	Language string
	Name     string
}

// FetchDescription returns the description text of a video.
func (c *Client) FetchDescription(ctx context.Context, videoID string) (string, error) {
	resp, err := c.fetchVideo(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil || resp.Items[0].Snippet.Description == nil {
		return "", models.Upstream("video response has no description", nil)
	}
	return *resp.Items[0].Snippet.Description, nil
}

// FetchThumbnail returns the URL of the highest resolution thumbnail available.
func (c *Client) FetchThumbnail(ctx context.Context, videoID string) (string, error) {
	resp, err := c.fetchVideo(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", models.Upstream("video response has no snippet", nil)
	}

	thumbs := resp.Items[0].Snippet.Thumbnails
	for _, key := range thumbnailPriority {
		if t, ok := thumbs[key]; ok && t.URL != "" {
			log.Printf("📸 Found thumbnail: %s - %s", key, t.URL)
			return t.URL, nil
		}
	}
	return "", models.NoContent("no thumbnail available for this video")
}

// FetchTranscript downloads the first caption track of a video and returns
// its text as a single space-separated string.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (string, error) {
	tracks, err := c.ListCaptionTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		log.Printf("⚠️  No caption tracks found for video %s", videoID)
		return "", models.NoContent("no caption tracks for this video")
	}

	first := tracks[0]
	log.Printf("📝 Found caption track: %s - %s", first.Language, first.Name)

	body, err := c.get(ctx, "/captions/"+url.PathEscape(first.ID), url.Values{}, "application/json")
	if err != nil {
		return "", err
	}
	return parseTranscriptXML(string(body)), nil
}

// ListCaptionTracks lists the caption tracks for a video. Items missing an
// id, language or name are skipped.
func (c *Client) ListCaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	body, err := c.get(ctx, "/captions", url.Values{
		"part":    {"snippet"},
		"videoId": {videoID},
	}, "")
	if err != nil {
		return nil, err
	}

	var resp captionListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, models.Upstream("failed to parse caption list", err)
	}

	var tracks []CaptionTrack
	for _, item := range resp.Items {
		s := item.Snippet
		if s.ID == "" || s.Language == "" || s.Name == "" {
			continue
		}
		tracks = append(tracks, CaptionTrack{ID: s.ID, Language: s.Language, Name: s.Name})
	}
	return tracks, nil
}

func (c *Client) fetchVideo(ctx context.Context, videoID string) (*videoListResponse, error) {
	body, err := c.get(ctx, "/videos", url.Values{
		"part": {"snippet"},
		"id":   {videoID},
	}, "")
	if err != nil {
		return nil, err
	}

	var resp videoListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, models.Upstream("failed to parse video response", err)
	}
	return &resp, nil
}

// get issues one GET request against the API and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, path string, query url.Values, accept string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, models.Upstream("rate limiter", err)
		}
	}

	query.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, models.Upstream("failed to create request", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.Upstream("YouTube request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.Upstream("failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusForbidden:
		return nil, models.Quota("YouTube API quota exceeded")
	default:
		return nil, models.Upstream(fmt.Sprintf("YouTube API returned status %d", resp.StatusCode), nil)
	}
}

var (
	textSegmentRegex = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
	tagRegex         = regexp.MustCompile(`<[^>]+>`)
	xmlEntities      = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// parseTranscriptXML joins the <text> segments of a timed-text document.
func parseTranscriptXML(doc string) string {
	var parts []string
	for _, m := range textSegmentRegex.FindAllStringSubmatch(doc, -1) {
		text := xmlEntities.Replace(m[1])
		text = tagRegex.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
