package preview

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	robotsTTL     = time.Hour
	maxRobotsBody = 512 << 10
)

type robotsRules struct {
	allow    []string
	disallow []string
}

func (r *robotsRules) allowed(path string) bool {
	if r == nil {
		return true
	}
	best, allow := -1, true
	for _, p := range r.allow {
		if strings.HasPrefix(path, p) && len(p) > best {
			best, allow = len(p), true
		}
	}
	for _, p := range r.disallow {
		if strings.HasPrefix(path, p) && len(p) > best {
			best, allow = len(p), false
		}
	}
	return allow
}

type robotsEntry struct {
	rules     map[string]*robotsRules
	fetchedAt time.Time
}

// RobotsChecker fetches and caches robots.txt per host. A missing or
// unreachable robots.txt allows everything.
type RobotsChecker struct {
	client *http.Client
	agent  string

	mu    sync.Mutex
	hosts map[string]robotsEntry
	now   func() time.Time
}

func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	return &RobotsChecker{
		client: client,
		agent:  userAgent,
		hosts:  make(map[string]robotsEntry),
		now:    time.Now,
	}
}

// Allowed reports whether u may be fetched by the configured agent.
func (c *RobotsChecker) Allowed(ctx context.Context, u *url.URL) bool {
	origin := u.Scheme + "://" + u.Host

	c.mu.Lock()
	entry, ok := c.hosts[origin]
	c.mu.Unlock()

	if !ok || c.now().Sub(entry.fetchedAt) > robotsTTL {
		entry = robotsEntry{rules: c.fetch(ctx, origin), fetchedAt: c.now()}
		c.mu.Lock()
		c.hosts[origin] = entry
		c.mu.Unlock()
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return c.match(entry.rules).allowed(path)
}

// match picks the group with the longest name contained in the agent,
// falling back to the wildcard group.
func (c *RobotsChecker) match(rules map[string]*robotsRules) *robotsRules {
	agent := strings.ToLower(c.agent)
	best := ""
	for name := range rules {
		if name == "*" || !strings.Contains(agent, name) {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	if best != "" {
		return rules[best]
	}
	return rules["*"]
}

func (c *RobotsChecker) fetch(ctx context.Context, origin string) map[string]*robotsRules {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	return parseRobots(io.LimitReader(resp.Body, maxRobotsBody))
}

// parseRobots groups rules by lowercased user agent. Consecutive
// user-agent lines share the rules that follow them.
func parseRobots(r io.Reader) map[string]*robotsRules {
	rules := make(map[string]*robotsRules)
	var current []*robotsRules
	inAgents := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if !inAgents {
				current = nil
			}
			inAgents = true
			name := strings.ToLower(value)
			r, exists := rules[name]
			if !exists {
				r = &robotsRules{}
				rules[name] = r
			}
			current = append(current, r)
		case "allow", "disallow":
			inAgents = false
			if value == "" {
				continue
			}
			for _, r := range current {
				if key == "allow" {
					r.allow = append(r.allow, value)
				} else {
					r.disallow = append(r.disallow, value)
				}
			}
		default:
			inAgents = false
		}
	}
	return rules
}
