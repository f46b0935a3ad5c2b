package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/models"
)

const (
	DefaultUserAgent = "bearlink-preview/1.0 (+https://bearlink.app)"
	defaultReferer   = "http://www.google.com"

	maxPageBody = 1 << 20
)

var (
	ErrRobotsDisallowed = errors.New("fetch disallowed by robots.txt")
	ErrNotHTML          = errors.New("response is not html")
)

// PageFetcher retrieves and parses the head of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*PageMeta, error)
}

// HTTPFetcher is the PageFetcher used in production.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	robots    *RobotsChecker
}

// NewHTTPFetcher builds a fetcher. A nil robots checker skips robots.txt.
func NewHTTPFetcher(client *http.Client, userAgent string, robots *RobotsChecker) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, robots: robots}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*PageMeta, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if f.robots != nil && !f.robots.Allowed(ctx, u) {
		return nil, ErrRobotsDisallowed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Referer", defaultReferer)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || (mediaType != "text/html" && mediaType != "application/xhtml+xml") {
		return nil, ErrNotHTML
	}

	// redirects change the base for relative references
	return ParseMeta(io.LimitReader(resp.Body, maxPageBody), resp.Request.URL)
}

// GenericStrategy reads page metadata and fills whatever is missing from
// the fixed per-domain table.
type GenericStrategy struct {
	fetcher PageFetcher
	timeout time.Duration
	logger  *zap.Logger
}

func NewGenericStrategy(fetcher PageFetcher, timeout time.Duration, logger *zap.Logger) *GenericStrategy {
	return &GenericStrategy{fetcher: fetcher, timeout: timeout, logger: logger}
}

func (s *GenericStrategy) Resolve(ctx context.Context, rawURL string) *models.Preview {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}

	var title, thumbnail string
	page, err := s.fetch(ctx, rawURL)
	if err != nil {
		s.logger.Debug("page fetch failed", zap.String("url", rawURL), zap.Error(err))
	} else {
		title, thumbnail = page.Title, page.Thumbnail()
	}

	fbThumb, fbTitle := FallbackFor(u.Hostname())
	if thumbnail == "" {
		thumbnail = fbThumb
	}
	if title == "" {
		title = fbTitle
	}

	p := &models.Preview{
		Title:        models.StringPtr(title),
		ThumbnailURL: models.StringPtr(thumbnail),
	}
	if p.Empty() {
		return nil
	}
	return p
}

func (s *GenericStrategy) fetch(ctx context.Context, rawURL string) (page *PageMeta, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("page parse panic: %v", r)
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.fetcher.Fetch(ctx, rawURL)
}
