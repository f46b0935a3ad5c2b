package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/bearlink/internal/kv"
	"github.com/atinyakov/bearlink/internal/models"
)

const (
	cachePrefix = "preview:"

	DefaultCacheTTL = 120 * 24 * time.Hour
)

// Cache stores resolved previews keyed by normalized URL.
type Cache struct {
	store kv.Store
	ttl   time.Duration
}

func NewCache(store kv.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{store: store, ttl: ttl}
}

// Get returns the cached preview for rawURL. ok is false on a miss; a
// value that no longer decodes counts as a miss.
func (c *Cache) Get(ctx context.Context, rawURL string) (p *models.Preview, ok bool, err error) {
	b, err := c.store.Get(ctx, cachePrefix+NormalizeURL(rawURL))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var v models.Preview
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false, nil
	}
	return &v, true, nil
}

// Set overwrites any previous entry for rawURL.
func (c *Cache) Set(ctx context.Context, rawURL string, p *models.Preview) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cachePrefix+NormalizeURL(rawURL), b, c.ttl)
}

// NormalizeURL trims rawURL, lowercases scheme and host, drops the
// fragment and a default port. Anything unparsable is returned trimmed.
func NormalizeURL(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = host + ":" + port
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
