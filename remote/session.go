// Package remote adapts a browser-automation channel to the probe capability
// contract. Handles wrap lazily-resolved locators: every capability call
// re-resolves the element with a bounded wait, so reads inherit the
// channel's built-in polling instead of failing instantly. The package also
// exposes the substrate-exclusive extended operations (bounding box,
// screenshot, hover, coordinate drags, scroll, computed style) that the
// in-process local substrate cannot perform.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Config configures a browser session.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome via launcher.
	RemoteURL string

	// Stealth applies anti-automation-detection patches to new pages.
	Stealth bool

	// NavigationTimeout bounds Open's navigation and load wait. Default: 30s.
	NavigationTimeout time.Duration

	// WaitTimeout bounds every element resolution. Reads poll until the
	// element appears or this window closes. Default: 10s.
	WaitTimeout time.Duration

	// FlushInterval is the cadence at which buffered page-side mutation
	// records are pulled into Go. Default: 250ms.
	FlushInterval time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 30 * time.Second
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = 10 * time.Second
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 250 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session owns one browser connection. Open creates per-page adapters.
type Session struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// Connect launches a local headless Chrome (or connects to cfg.RemoteURL)
// and returns the session.
func Connect(cfg Config) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger

	var wsURL string
	s := &Session{cfg: cfg}

	if cfg.RemoteURL != "" {
		wsURL = cfg.RemoteURL
		log.Info("remote: connecting to external browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(true)
		l = l.Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("remote: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("remote: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("remote: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("remote: ignore cert errors failed", "error", err)
	}

	s.browser = b
	return s, nil
}

// Browser returns the underlying browser handle.
func (s *Session) Browser() *rod.Browser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.browser
}

// Open creates a page, navigates it to pageURL, waits for the load event,
// and returns the adapter bound to it.
func (s *Session) Open(ctx context.Context, pageURL string) (*Adapter, error) {
	s.mu.Lock()
	b := s.browser
	closed := s.closed
	s.mu.Unlock()

	if closed || b == nil {
		return nil, fmt.Errorf("remote: session is closed")
	}

	var page *rod.Page
	var err error
	if s.cfg.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("remote: create page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("remote: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		s.cfg.Logger.Warn("remote: wait load timeout", "url", pageURL, "error", err)
	}

	s.cfg.Logger.Debug("remote: page opened", "url", pageURL, "stealth", s.cfg.Stealth)
	return &Adapter{page: page, cfg: s.cfg}, nil
}

// Close shuts the browser down and releases the launched process.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
	return err
}
