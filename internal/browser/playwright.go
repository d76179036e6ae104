package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures the persistent browser context
type Options struct {
	ProfileDir string
	Headless   bool
	Width      int
	Height     int
	Timeout    time.Duration

	// Debug disables timeout enforcement
	Debug bool
}

// stealthScript hides the most obvious automation marker
const stealthScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

// Install downloads the Firefox build used by Launch
func Install() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"firefox"}}); err != nil {
		return fmt.Errorf("install playwright firefox: %w", err)
	}
	return nil
}

// PlaywrightSession implements Session on a persistent Firefox context
type PlaywrightSession struct {
	pw    *playwright.Playwright
	bctx  playwright.BrowserContext
	debug bool

	mu      sync.RWMutex
	timeout time.Duration
}

// Compiletime check
var _ Session = (*PlaywrightSession)(nil)

// Launch starts Firefox with the profile in opts.ProfileDir
func Launch(opts Options) (*PlaywrightSession, error) {
	pw, err := playwright.Run(&playwright.RunOptions{Browsers: []string{"firefox"}})
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	bctx, err := pw.Firefox.LaunchPersistentContext(opts.ProfileDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Viewport: &playwright.Size{Width: opts.Width, Height: opts.Height},
		// text selectors only match the english UI
		Locale: playwright.String("en-US"),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch firefox: %w", err)
	}

	if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		bctx.Close()
		pw.Stop()
		return nil, fmt.Errorf("add init script: %w", err)
	}

	s := &PlaywrightSession{pw: pw, bctx: bctx, debug: opts.Debug}
	s.SetTimeout(opts.Timeout)
	return s, nil
}

// Page returns the tab the persistent context opened with
func (s *PlaywrightSession) Page(ctx context.Context) (Page, error) {
	if pages := s.bctx.Pages(); len(pages) > 0 {
		return &playwrightPage{page: pages[0], session: s}, nil
	}
	return s.NewPage(ctx)
}

// NewPage opens another tab sharing the context cookies
func (s *PlaywrightSession) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := s.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &playwrightPage{page: page, session: s}, nil
}

// SetTimeout sets the default budget for waits and actions; ignored in debug mode
func (s *PlaywrightSession) SetTimeout(d time.Duration) {
	if s.debug {
		d = 0
	}
	s.mu.Lock()
	s.timeout = d
	s.mu.Unlock()
	s.bctx.SetDefaultTimeout(float64(d.Milliseconds()))
}

// Timeout returns the current budget, zero meaning unlimited
func (s *PlaywrightSession) Timeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeout
}

// AddCookies seeds cookies into the context
func (s *PlaywrightSession) AddCookies(ctx context.Context, cookies []Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pc := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		oc := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			Secure:   playwright.Bool(c.Secure),
			HttpOnly: playwright.Bool(c.HTTPOnly),
		}
		if c.Path == "" {
			oc.Path = playwright.String("/")
		}
		if !c.Expires.IsZero() {
			oc.Expires = playwright.Float(float64(c.Expires.Unix()))
		}
		pc = append(pc, oc)
	}

	if err := s.bctx.AddCookies(pc); err != nil {
		return fmt.Errorf("add cookies: %w", err)
	}
	return nil
}

// Close closes the context (flushing the profile) and stops the driver
func (s *PlaywrightSession) Close() error {
	if err := s.bctx.Close(); err != nil {
		s.pw.Stop()
		return fmt.Errorf("close browser context: %w", err)
	}
	if err := s.pw.Stop(); err != nil {
		return fmt.Errorf("stop playwright: %w", err)
	}
	return nil
}

type playwrightPage struct {
	page    playwright.Page
	session *PlaywrightSession
}

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) first(selector string) playwright.Locator {
	return p.page.Locator(selector).First()
}

func (p *playwrightPage) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.page.Locator(selector).Count()
}

func (p *playwrightPage) WaitVisible(ctx context.Context, selector string) error {
	err := poll(ctx, p.session.Timeout(), pollInterval, func() (bool, error) {
		return p.first(selector).IsVisible()
	})
	if err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) WaitURL(ctx context.Context, match func(url string) bool) error {
	err := poll(ctx, p.session.Timeout(), pollInterval, func() (bool, error) {
		return match(p.page.URL()), nil
	})
	if err != nil {
		return fmt.Errorf("wait for url: %w", err)
	}
	return nil
}

func (p *playwrightPage) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.first(selector).Click(); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.first(selector).Fill(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) Type(ctx context.Context, selector, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.first(selector).PressSequentially(text); err != nil {
		return fmt.Errorf("type into %s: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) Check(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.first(selector).Check(); err != nil {
		return fmt.Errorf("check %s: %w", selector, err)
	}
	return nil
}

func (p *playwrightPage) InnerText(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := p.first(selector).InnerText()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

func (p *playwrightPage) AllInnerTexts(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	texts, err := p.page.Locator(selector).AllInnerTexts()
	if err != nil {
		return nil, fmt.Errorf("read texts of %s: %w", selector, err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

func (p *playwrightPage) Attribute(ctx context.Context, selector, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := p.first(selector).GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("read %s of %s: %w", name, selector, err)
	}
	return value, nil
}

func (p *playwrightPage) InputValue(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := p.first(selector).InputValue()
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", selector, err)
	}
	return value, nil
}

func (p *playwrightPage) Screenshot(ctx context.Context, selector string, fullPage bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if selector == "" {
		return p.page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(fullPage)})
	}
	return p.first(selector).Screenshot()
}

func (p *playwrightPage) ExpectResponse(ctx context.Context, urlPrefix string, action func() error) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := p.page.ExpectResponse(urlPrefix+"**", action)
	if err != nil {
		return nil, fmt.Errorf("wait for response from %s: %w", urlPrefix, err)
	}
	body, err := resp.Body()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}
