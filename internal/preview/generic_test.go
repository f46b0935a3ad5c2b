package preview_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/bearlink/internal/preview"
)

const testPage = `<!doctype html><html><head>
<title>ignored</title>
<meta property="og:title" content="Served Title">
<meta property="og:image" content="/static/og.png">
</head><body>hello</body></html>`

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotUA, gotReferer string
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		gotUA, gotReferer = r.UserAgent(), r.Referer()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := preview.NewHTTPFetcher(ts.Client(), "test-agent/1.0", nil)

	t.Run("html page", func(t *testing.T) {
		m, err := f.Fetch(context.Background(), ts.URL+"/page")
		require.NoError(t, err)
		assert.Equal(t, "Served Title", m.Title)
		assert.Equal(t, ts.URL+"/static/og.png", m.Thumbnail())
		assert.Equal(t, "test-agent/1.0", gotUA)
		assert.Equal(t, "http://www.google.com", gotReferer)
	})

	t.Run("non html", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), ts.URL+"/json")
		assert.ErrorIs(t, err, preview.ErrNotHTML)
	})

	t.Run("non 2xx", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), ts.URL+"/gone")
		assert.Error(t, err)
	})
}

func TestHTTPFetcher_RespectsRobots(t *testing.T) {
	pageHits := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\nAllow: /private/ok\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pageHits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	f := preview.NewHTTPFetcher(ts.Client(), "", preview.NewRobotsChecker(ts.Client(), preview.DefaultUserAgent))

	_, err := f.Fetch(context.Background(), ts.URL+"/private/page")
	assert.ErrorIs(t, err, preview.ErrRobotsDisallowed)
	assert.Equal(t, 0, pageHits)

	_, err = f.Fetch(context.Background(), ts.URL+"/private/ok")
	assert.NoError(t, err)

	_, err = f.Fetch(context.Background(), ts.URL+"/public")
	assert.NoError(t, err)
	assert.Equal(t, 2, pageHits)
}

func TestRobotsChecker_AgentSpecificGroup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Join([]string{
			"# comment",
			"User-agent: bearlink-preview",
			"User-agent: otherbot",
			"Disallow: /",
			"",
			"User-agent: *",
			"Disallow:",
		}, "\n")))
	}))
	defer ts.Close()

	blocked := preview.NewRobotsChecker(ts.Client(), preview.DefaultUserAgent)
	assert.False(t, blocked.Allowed(context.Background(), mustURL(t, ts.URL+"/anything")))

	allowed := preview.NewRobotsChecker(ts.Client(), "somebody-else/2.0")
	assert.True(t, allowed.Allowed(context.Background(), mustURL(t, ts.URL+"/anything")))
}

func TestRobotsChecker_LongestAgentGroupWins(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Join([]string{
			"User-agent: bearlink",
			"Disallow: /",
			"",
			"User-agent: bearlink-preview",
			"Disallow: /private",
			"",
			"User-agent: preview",
			"Disallow: /",
		}, "\n")))
	}))
	defer ts.Close()

	for i := 0; i < 20; i++ {
		c := preview.NewRobotsChecker(ts.Client(), "bearlink-preview/1.0")
		assert.True(t, c.Allowed(context.Background(), mustURL(t, ts.URL+"/public")))
		assert.False(t, c.Allowed(context.Background(), mustURL(t, ts.URL+"/private/x")))
	}
}

func TestRobotsChecker_MissingFileAllows(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	c := preview.NewRobotsChecker(ts.Client(), preview.DefaultUserAgent)
	assert.True(t, c.Allowed(context.Background(), mustURL(t, ts.URL+"/x")))
}

type stubFetcher struct {
	meta  *preview.PageMeta
	err   error
	panic bool
}

func (s stubFetcher) Fetch(context.Context, string) (*preview.PageMeta, error) {
	if s.panic {
		panic("tokenizer exploded")
	}
	return s.meta, s.err
}

func TestGenericStrategy_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		fetcher   stubFetcher
		url       string
		wantNil   bool
		wantTitle string
		wantThumb string
	}{
		{
			name:      "page data",
			fetcher:   stubFetcher{meta: &preview.PageMeta{Title: "Page", Image: "https://example.com/og.png"}},
			url:       "https://example.com/a",
			wantTitle: "Page",
			wantThumb: "https://example.com/og.png",
		},
		{
			name:      "page without image falls back to icon",
			fetcher:   stubFetcher{meta: &preview.PageMeta{Title: "Page", Icon: "https://example.com/favicon.ico"}},
			url:       "https://example.com/a",
			wantTitle: "Page",
			wantThumb: "https://example.com/favicon.ico",
		},
		{
			name:      "fetch error uses domain table",
			fetcher:   stubFetcher{err: errors.New("timeout")},
			url:       "https://www.naver.com/",
			wantTitle: "네이버",
			wantThumb: "https://ssl.pstatic.net/sstatic/search/common/og_v3.png",
		},
		{
			name:      "table fills only the missing field",
			fetcher:   stubFetcher{meta: &preview.PageMeta{Title: "golang/go"}},
			url:       "https://github.com/golang/go",
			wantTitle: "golang/go",
			wantThumb: "https://github.githubassets.com/favicons/favicon-dark.png",
		},
		{
			name:      "parser panic is contained",
			fetcher:   stubFetcher{panic: true},
			url:       "https://www.google.com/search",
			wantTitle: "구글",
			wantThumb: "https://www.google.com/favicon.ico",
		},
		{
			name:    "nothing found",
			fetcher: stubFetcher{err: errors.New("blocked")},
			url:     "https://unknown.example/",
			wantNil: true,
		},
		{
			name:    "empty page and no rule",
			fetcher: stubFetcher{meta: &preview.PageMeta{}},
			url:     "https://unknown.example/",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := preview.NewGenericStrategy(tt.fetcher, time.Second, zap.NewNop())
			p := s.Resolve(context.Background(), tt.url)
			if tt.wantNil {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			if tt.wantTitle == "" {
				assert.Nil(t, p.Title)
			} else {
				require.NotNil(t, p.Title)
				assert.Equal(t, tt.wantTitle, *p.Title)
			}
			require.NotNil(t, p.ThumbnailURL)
			assert.Equal(t, tt.wantThumb, *p.ThumbnailURL)
		})
	}
}

func TestGenericStrategy_EndToEndOverHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testPage))
	}))
	defer ts.Close()

	s := preview.NewGenericStrategy(preview.NewHTTPFetcher(ts.Client(), "", nil), time.Second, zap.NewNop())
	p := s.Resolve(context.Background(), ts.URL+"/article")
	require.NotNil(t, p)
	assert.Equal(t, "Served Title", *p.Title)
	assert.Equal(t, ts.URL+"/static/og.png", *p.ThumbnailURL)
}
