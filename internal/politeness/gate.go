// Package politeness spaces out requests to remote document hosts and
// honours their robots.txt.
package politeness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("blocked by robots.txt")

const maxRobotsBytes = 512 << 10

// Config controls the gate. Zero values disable both checks.
type Config struct {
	MinDelay      time.Duration
	RespectRobots bool
	RobotsTTL     time.Duration
	UserAgent     string
}

// Gate is consulted before every remote fetch
type Gate struct {
	config Config
	client *http.Client
	logger *logrus.Entry

	mu     sync.Mutex
	hosts  map[string]*hostState
	robots map[string]*robotsEntry
}

type hostState struct {
	mu          sync.Mutex
	lastRequest time.Time
}

type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchTime time.Time
}

func NewGate(cfg Config, client *http.Client, logger *logrus.Entry) *Gate {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logrus.WithField("component", "politeness")
	}
	return &Gate{
		config: cfg,
		client: client,
		logger: logger,
		hosts:  make(map[string]*hostState),
		robots: make(map[string]*robotsEntry),
	}
}

// Wait blocks until rawURL may be fetched. Requests to the same host are
// at least MinDelay apart.
func (g *Gate) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("only HTTP/HTTPS URLs are supported: %s", rawURL)
	}

	if g.config.RespectRobots {
		allowed, err := g.allowed(ctx, u)
		if err != nil {
			g.logger.WithError(err).WithField("host", u.Host).Warn("Failed to get robots.txt, allowing request")
		} else if !allowed {
			return fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	return g.delay(ctx, u.Host)
}

// HostCount returns the number of hosts seen so far
func (g *Gate) HostCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.hosts)
}

func (g *Gate) delay(ctx context.Context, host string) error {
	g.mu.Lock()
	state, ok := g.hosts[host]
	if !ok {
		state = &hostState{}
		g.hosts[host] = state
	}
	g.mu.Unlock()

	// held while sleeping so concurrent callers queue per host
	state.mu.Lock()
	defer state.mu.Unlock()

	if !state.lastRequest.IsZero() {
		if wait := g.config.MinDelay - time.Since(state.lastRequest); wait > 0 {
			g.logger.WithFields(logrus.Fields{
				"host":      host,
				"wait_time": wait,
			}).Debug("Waiting for politeness delay")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	state.lastRequest = time.Now()
	return nil
}

func (g *Gate) allowed(ctx context.Context, u *url.URL) (bool, error) {
	data, err := g.robotsData(ctx, u)
	if err != nil {
		return false, err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, g.config.UserAgent), nil
}

func (g *Gate) robotsData(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host

	g.mu.Lock()
	entry, ok := g.robots[key]
	g.mu.Unlock()
	if ok && (g.config.RobotsTTL <= 0 || time.Since(entry.fetchTime) < g.config.RobotsTTL) {
		return entry.data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots.txt request: %w", err)
	}
	if g.config.UserAgent != "" {
		req.Header.Set("User-Agent", g.config.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read robots.txt: %w", err)
	}

	// 4xx allows everything, 5xx disallows everything
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.robots[key] = &robotsEntry{data: data, fetchTime: time.Now()}
	g.mu.Unlock()

	return data, nil
}
