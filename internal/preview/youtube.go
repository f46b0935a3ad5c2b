package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
)

const (
	oembedEndpoint  = "https://www.youtube.com/oembed"
	dataAPIEndpoint = "https://www.googleapis.com/youtube/v3/videos"
	watchURL        = "https://www.youtube.com/watch?v="
	thumbnailFormat = "https://img.youtube.com/vi/%s/0.jpg"

	maxAPIBody = 256 << 10
)

// ErrVideoNotFound is returned by a VideoClient when the API knows no such video.
var ErrVideoNotFound = errors.New("video not found")

// VideoMeta is what a structured video lookup returns.
type VideoMeta struct {
	Title string
}

// VideoClient looks up metadata for a video id.
type VideoClient interface {
	Lookup(ctx context.Context, videoID string) (*VideoMeta, error)
}

// ThumbnailURL derives the deterministic thumbnail for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf(thumbnailFormat, videoID)
}

// OEmbedClient queries the public oEmbed endpoint. It needs no credentials.
type OEmbedClient struct {
	client   *http.Client
	endpoint string
}

func NewOEmbedClient(client *http.Client, endpoint string) *OEmbedClient {
	if endpoint == "" {
		endpoint = oembedEndpoint
	}
	return &OEmbedClient{client: client, endpoint: endpoint}
}

func (c *OEmbedClient) Lookup(ctx context.Context, videoID string) (*VideoMeta, error) {
	q := url.Values{}
	q.Set("url", watchURL+videoID)
	q.Set("format", "json")

	var body struct {
		Title string `json:"title"`
	}
	if err := getJSON(ctx, c.client, c.endpoint+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	return &VideoMeta{Title: body.Title}, nil
}

// DataAPIClient queries the Data API v3 videos resource with an API key.
type DataAPIClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

func NewDataAPIClient(client *http.Client, endpoint, apiKey string) *DataAPIClient {
	if endpoint == "" {
		endpoint = dataAPIEndpoint
	}
	return &DataAPIClient{client: client, endpoint: endpoint, apiKey: apiKey}
}

func (c *DataAPIClient) Lookup(ctx context.Context, videoID string) (*VideoMeta, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", videoID)
	q.Set("key", c.apiKey)

	var body struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := getJSON(ctx, c.client, c.endpoint+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return nil, ErrVideoNotFound
	}
	return &VideoMeta{Title: body.Items[0].Snippet.Title}, nil
}

func getJSON(ctx context.Context, client *http.Client, target string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrVideoNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, maxAPIBody)).Decode(dst)
}

// VideoStrategy resolves video-platform URLs through a VideoClient.
type VideoStrategy struct {
	client  VideoClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewVideoStrategy(client VideoClient, timeout time.Duration, logger *zap.Logger) *VideoStrategy {
	return &VideoStrategy{client: client, timeout: timeout, logger: logger}
}

func (s *VideoStrategy) Resolve(ctx context.Context, rawURL string) *models.Preview {
	id, ok := VideoID(rawURL)
	if !ok {
		s.logger.Debug("no video id in url", zap.String("url", rawURL))
		return nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	meta, err := s.client.Lookup(ctx, id)
	if err != nil {
		s.logger.Warn("video lookup failed", zap.String("video_id", id), zap.Error(err))
		return nil
	}

	thumb := ThumbnailURL(id)
	return &models.Preview{
		Title:        models.StringPtr(meta.Title),
		ThumbnailURL: &thumb,
	}
}
