package preview

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/atinyakov/bearlink/internal/models"
)

// Source is the class of a URL that selects a resolution strategy.
type Source int

const (
	SourceGeneric Source = iota
	SourceVideo
)

func (s Source) String() string {
	if s == SourceVideo {
		return "video"
	}
	return "generic"
}

// Strategy derives a preview for one class of URL. A nil result means
// nothing usable was found; strategies never return errors to callers.
type Strategy interface {
	Resolve(ctx context.Context, rawURL string) *models.Preview
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, rawURL string) *models.Preview

func (f StrategyFunc) Resolve(ctx context.Context, rawURL string) *models.Preview {
	return f(ctx, rawURL)
}

// Dispatcher maps a URL to exactly one strategy.
type Dispatcher struct {
	video   Strategy
	generic Strategy
}

func NewDispatcher(video, generic Strategy) *Dispatcher {
	return &Dispatcher{video: video, generic: generic}
}

func (d *Dispatcher) Pick(rawURL string) Strategy {
	if Classify(rawURL) == SourceVideo {
		return d.video
	}
	return d.generic
}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
}

// Classify reports which strategy handles rawURL. It is pure. A URL on a
// video host with a watch, shorts, embed or live path is video even when no
// id can be extracted from it; the video strategy rejects those.
func Classify(rawURL string) Source {
	if _, ok := videoCandidate(rawURL); ok {
		return SourceVideo
	}
	return SourceGeneric
}

// videoCandidate returns the raw id slot of a URL whose host and path shape
// name a video page. The candidate is not validated.
func videoCandidate(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case host == "youtu.be" || host == "www.youtu.be":
		return segments[0], true
	case youtubeHosts[host]:
		switch segments[0] {
		case "watch":
			return u.Query().Get("v"), true
		case "shorts", "embed", "live", "v":
			if len(segments) > 1 {
				return segments[1], true
			}
			return "", true
		}
	}
	return "", false
}

// VideoID extracts the platform video identifier from a watch URL, a
// short link, or a shorts, embed or live path. Both forms of the same
// video yield the same id.
func VideoID(rawURL string) (string, bool) {
	id, ok := videoCandidate(rawURL)
	if !ok || !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
