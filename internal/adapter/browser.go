package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
)

// lookupTimeout bounds a single element lookup inside a submit or reset
const lookupTimeout = 5 * time.Second

// Browser owns a launched or attached Chrome and opens isolated sessions on it
type Browser struct {
	cfg    *config.Config
	logger *zap.Logger

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	sessions map[string]*Session
}

// NewBrowser creates a Browser; Chrome is started lazily by Start or NewSession
func NewBrowser(cfg *config.Config, logger *zap.Logger) *Browser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Browser{
		cfg:      cfg,
		logger:   logger.Named("browser"),
		sessions: make(map[string]*Session),
	}
}

// Start connects to an existing Chrome or launches a new one.
func (b *Browser) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If we already have a browser, verify it's still alive
	if b.browser != nil {
		if _, err := b.browser.Version(); err == nil {
			return nil
		}
		b.logger.Warn("stale browser connection, reconnecting")
		_ = b.browser.Close()
		b.browser = nil
	}

	controlURL := b.cfg.Browser.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(b.cfg.Browser.Headless)
		if b.cfg.Browser.Bin != "" {
			l = l.Bin(b.cfg.Browser.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		b.launcher = l
		controlURL = url
	}

	// The connection outlives ctx; sessions bound their own calls.
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	b.browser = browser
	b.logger.Debug("browser connected", zap.String("control_url", controlURL))
	return nil
}

// NewSession opens an incognito page on the target. Sessions share nothing:
// each has its own input and output surfaces.
func (b *Browser) NewSession(ctx context.Context) (Adapter, error) {
	if err := b.Start(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = incognito.Close()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.Browser.ViewportWidth,
		Height:            b.cfg.Browser.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		b.logger.Warn("failed to set viewport", zap.Error(err))
	}

	s := &Session{
		id:        uuid.NewString(),
		cfg:       b.cfg,
		logger:    b.logger,
		incognito: incognito,
		page:      page,
		release:   b.forget,
	}
	s.logger = b.logger.With(zap.String("session", s.id))

	if err := s.navigate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	b.mu.Lock()
	b.sessions[s.id] = s
	b.mu.Unlock()
	return s, nil
}

func (b *Browser) forget(id string) {
	b.mu.Lock()
	delete(b.sessions, id)
	b.mu.Unlock()
}

// Close closes tracked sessions and the browser.
func (b *Browser) Close() error {
	b.mu.Lock()
	sessions := make([]*Session, 0, len(b.sessions))
	for _, s := range b.sessions {
		sessions = append(sessions, s)
	}
	b.mu.Unlock()

	for _, s := range sessions {
		_ = s.Close()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return err
}

// Session is one isolated page. It is not safe for concurrent use; the
// runner gives each session to exactly one worker.
type Session struct {
	id        string
	cfg       *config.Config
	logger    *zap.Logger
	incognito *rod.Browser
	page      *rod.Page
	release   func(id string)
	closeOnce sync.Once
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

func (s *Session) navigate(ctx context.Context) error {
	url := s.cfg.Target.URL
	p := s.page.Context(ctx).Timeout(s.cfg.Browser.NavigationTimeout)
	if err := p.Navigate(url); err != nil {
		return newError(KindNavigationFailed, "navigate", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return newError(KindNavigationFailed, "navigate", url, err)
	}
	// The page is only usable once the input surface exists.
	if _, err := s.element(ctx, "navigate", s.cfg.Target.InputSelector); err != nil {
		return err
	}
	s.logger.Debug("navigated", zap.String("url", url))
	return nil
}

// element waits briefly for selector and returns its first match
func (s *Session) element(ctx context.Context, op, selector string) (*rod.Element, error) {
	el, err := s.page.Context(ctx).Timeout(lookupTimeout).Element(selector)
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(KindTimedOut, op, selector, ctx.Err())
		}
		return nil, newError(KindElementNotFound, op, selector, err)
	}
	return el, nil
}

// outputText reads the primary output region: the first element matching the
// structural output selector. Missing region reads as empty.
func (s *Session) outputText(ctx context.Context) (string, bool, error) {
	els, err := s.page.Context(ctx).Elements(s.cfg.Target.OutputSelector)
	if err != nil {
		return "", false, err
	}
	if els.Empty() {
		return "", false, nil
	}
	text, err := els.First().Context(ctx).Text()
	if err != nil {
		return "", true, err
	}
	return text, true, nil
}

func (s *Session) inputText(ctx context.Context) (string, error) {
	el, err := s.element(ctx, "read", s.cfg.Target.InputSelector)
	if err != nil {
		return "", err
	}
	v, err := el.Context(ctx).Property("value")
	if err != nil {
		return "", err
	}
	if v.Nil() {
		// contenteditable surfaces have no value property
		return el.Context(ctx).Text()
	}
	return v.Str(), nil
}

func (s *Session) policy(baseline string) Policy {
	t := s.cfg.Target
	return Policy{
		Interval:       t.PollInterval,
		Samples:        t.StableSamples,
		Timeout:        t.SubmitTimeout,
		Baseline:       baseline,
		RequireChange:  true,
		SettleFallback: t.SettleFallback,
	}
}

// Submit fills the input surface and waits for the output region to stabilize.
func (s *Session) Submit(ctx context.Context, text string) (string, error) {
	in, err := s.element(ctx, "submit", s.cfg.Target.InputSelector)
	if err != nil {
		return "", err
	}

	baseline, _, err := s.outputText(ctx)
	if err != nil {
		baseline = ""
	}

	if err := in.Context(ctx).SelectAllText(); err != nil {
		return "", newError(KindElementNotFound, "submit", s.cfg.Target.InputSelector, err)
	}
	if err := in.Context(ctx).Input(text); err != nil {
		return "", newError(KindElementNotFound, "submit", s.cfg.Target.InputSelector, err)
	}

	var found bool
	out, err := WaitStable(ctx, func(ctx context.Context) (string, error) {
		v, ok, err := s.outputText(ctx)
		found = found || ok
		return v, err
	}, s.policy(baseline))
	if err != nil {
		if !found {
			return "", newError(KindElementNotFound, "submit", s.cfg.Target.OutputSelector, err)
		}
		var ae *Error
		if errors.As(err, &ae) {
			ae.Op = "submit"
			ae.Selector = s.cfg.Target.OutputSelector
			return out, ae
		}
		return out, newError(KindTimedOut, "submit", s.cfg.Target.OutputSelector, err)
	}

	s.logger.Debug("submitted", zap.String("input", text), zap.String("output", out))
	return out, nil
}

// Read returns the current input value and output text
func (s *Session) Read(ctx context.Context) (domain.Surfaces, error) {
	in, err := s.inputText(ctx)
	if err != nil {
		var ae *Error
		if errors.As(err, &ae) {
			return domain.Surfaces{}, err
		}
		return domain.Surfaces{}, newError(KindElementNotFound, "read", s.cfg.Target.InputSelector, err)
	}
	out, _, err := s.outputText(ctx)
	if err != nil {
		return domain.Surfaces{}, newError(KindElementNotFound, "read", s.cfg.Target.OutputSelector, err)
	}
	return domain.Surfaces{Input: in, Output: out}, nil
}

func emptySurfaces(s domain.Surfaces) bool {
	return strings.TrimSpace(s.Input) == "" && strings.TrimSpace(s.Output) == ""
}

// Reset presses the clear control, or deletes the input when the page has
// none, and waits until both surfaces read back empty. Resetting an already
// empty page is a no-op. Surfaces still dirty at the timeout are a
// KindTimedOut error.
func (s *Session) Reset(ctx context.Context) error {
	cur, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if emptySurfaces(cur) {
		return nil
	}
	if err := s.press(ctx, "reset"); err != nil {
		return err
	}
	if err := s.waitEmpty(ctx); err != nil {
		var ae *Error
		if errors.As(err, &ae) {
			ae.Op = "reset"
		}
		return err
	}
	return nil
}

// Clear presses the clear control once and gives the page the submit timeout
// to empty its surfaces. Unlike Reset it does not fail when they stay dirty;
// callers read the surfaces afterwards and judge them. Only a missing control
// or a finished ctx is an error.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.press(ctx, "clear"); err != nil {
		return err
	}
	if err := s.waitEmpty(ctx); err != nil {
		if ctx.Err() != nil {
			return newError(KindTimedOut, "clear", s.cfg.Target.ClearSelector, ctx.Err())
		}
		s.logger.Debug("surfaces not empty after clear", zap.Error(err))
	}
	return nil
}

// press activates the clear control, falling back to select-all and delete
// on the input when no control is configured
func (s *Session) press(ctx context.Context, op string) error {
	if sel := s.cfg.Target.ClearSelector; sel != "" {
		btn, err := s.element(ctx, op, sel)
		if err != nil {
			return err
		}
		if err := btn.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
			return newError(KindElementNotFound, op, sel, err)
		}
		return nil
	}

	in, err := s.element(ctx, op, s.cfg.Target.InputSelector)
	if err != nil {
		return err
	}
	if err := in.Context(ctx).SelectAllText(); err != nil {
		return newError(KindElementNotFound, op, s.cfg.Target.InputSelector, err)
	}
	if err := s.page.Keyboard.Press(input.Backspace); err != nil {
		return newError(KindElementNotFound, op, s.cfg.Target.InputSelector, err)
	}
	return nil
}

func (s *Session) waitEmpty(ctx context.Context) error {
	return WaitFor(ctx, s.cfg.Target.PollInterval, s.cfg.Target.SubmitTimeout, func(ctx context.Context) (bool, error) {
		cur, err := s.Read(ctx)
		if err != nil {
			return false, err
		}
		return emptySurfaces(cur), nil
	})
}

// Close closes the page and its incognito context
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.page != nil {
			err = s.page.Close()
		}
		if s.incognito != nil {
			_ = s.incognito.Close()
		}
		if s.release != nil {
			s.release(s.id)
		}
	})
	return err
}
