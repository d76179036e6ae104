package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/elsanchez/free-games-claimer/internal/browser"
)

// fakePage is a scripted page. A selector counts as visible while its count
// is positive; clicks run the registered handler with the lock held.
type fakePage struct {
	session *fakeSession

	mu        sync.Mutex
	url       string
	counts    map[string]int
	texts     map[string]string
	allTexts  map[string][]string
	values    map[string]string
	attrs     map[string]string
	responses map[string][]byte
	onClick   map[string]func(p *fakePage)
	onGoto    func(p *fakePage, url string)

	clicks  []string
	fills   map[string]string
	typed   map[string]string
	checked []string
	shots   []string
	closed  bool
}

func newFakePage(s *fakeSession) *fakePage {
	return &fakePage{
		session:   s,
		url:       "about:blank",
		counts:    make(map[string]int),
		texts:     make(map[string]string),
		allTexts:  make(map[string][]string),
		values:    make(map[string]string),
		attrs:     make(map[string]string),
		responses: make(map[string][]byte),
		onClick:   make(map[string]func(p *fakePage)),
		fills:     make(map[string]string),
		typed:     make(map[string]string),
	}
}

var _ browser.Page = (*fakePage)(nil)

func (p *fakePage) Goto(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	if p.onGoto != nil {
		p.onGoto(p, url)
	}
	return nil
}

func (p *fakePage) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePage) Count(ctx context.Context, selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[selector], nil
}

func (p *fakePage) wait(ctx context.Context, cond func() bool) error {
	var deadline <-chan time.Time
	if d := p.session.Timeout(); d > 0 {
		deadline = time.After(d)
	}
	for {
		p.mu.Lock()
		ok := cond()
		p.mu.Unlock()
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return browser.ErrTimeout
		case <-time.After(time.Millisecond):
		}
	}
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string) error {
	return p.wait(ctx, func() bool { return p.counts[selector] > 0 })
}

func (p *fakePage) WaitURL(ctx context.Context, match func(url string) bool) error {
	return p.wait(ctx, func() bool { return match(p.url) })
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.onClick[selector]
	if !ok && p.counts[selector] == 0 {
		return fmt.Errorf("click %s: no element", selector)
	}
	p.clicks = append(p.clicks, selector)
	if h != nil {
		h(p)
	}
	return nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fills[selector] = value
	return nil
}

func (p *fakePage) Type(ctx context.Context, selector, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typed[selector] = text
	return nil
}

func (p *fakePage) Check(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked = append(p.checked, selector)
	return nil
}

func (p *fakePage) InnerText(ctx context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.texts[selector]
	if !ok {
		return "", fmt.Errorf("read text of %s: no element", selector)
	}
	return t, nil
}

func (p *fakePage) AllInnerTexts(ctx context.Context, selector string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.allTexts[selector]...), nil
}

func (p *fakePage) Attribute(ctx context.Context, selector, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attrs[selector+"@"+name], nil
}

func (p *fakePage) InputValue(ctx context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counts[selector] == 0 {
		return "", fmt.Errorf("read value of %s: %w", selector, browser.ErrTimeout)
	}
	return p.values[selector], nil
}

func (p *fakePage) Screenshot(ctx context.Context, selector string, fullPage bool) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shots = append(p.shots, selector)
	return []byte("png"), nil
}

func (p *fakePage) ExpectResponse(ctx context.Context, urlPrefix string, action func() error) ([]byte, error) {
	if err := action(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	body, ok := p.responses[urlPrefix]
	if !ok {
		return nil, fmt.Errorf("no response from %s", urlPrefix)
	}
	return body, nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// removeTitle drops title from the list read by selector
func (p *fakePage) removeTitle(selector, title string) {
	var kept []string
	for _, t := range p.allTexts[selector] {
		if t != title {
			kept = append(kept, t)
		}
	}
	p.allTexts[selector] = kept
}

func (p *fakePage) clicked(selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clicks {
		if c == selector {
			return true
		}
	}
	return false
}

type fakeSession struct {
	mu       sync.Mutex
	timeout  time.Duration
	timeouts []time.Duration
	main     *fakePage
	extra    []*fakePage
	opened   []*fakePage
}

var _ browser.Session = (*fakeSession)(nil)

func newFakeSession() *fakeSession {
	s := &fakeSession{}
	s.main = newFakePage(s)
	return s
}

func (s *fakeSession) Page(ctx context.Context) (browser.Page, error) {
	return s.main, nil
}

func (s *fakeSession) NewPage(ctx context.Context) (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.extra) == 0 {
		return nil, errors.New("no more pages")
	}
	p := s.extra[0]
	s.extra = s.extra[1:]
	s.opened = append(s.opened, p)
	return p, nil
}

func (s *fakeSession) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
	s.timeouts = append(s.timeouts, d)
}

func (s *fakeSession) Timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeout
}

func (s *fakeSession) AddCookies(ctx context.Context, cookies []browser.Cookie) error { return nil }
func (s *fakeSession) Close() error                                                  { return nil }

type fakePrompter struct {
	email, password, code string
	asked                 []string
}

func (f *fakePrompter) Text(ctx context.Context, message string) (string, error) {
	f.asked = append(f.asked, message)
	return f.email, nil
}

func (f *fakePrompter) Password(ctx context.Context, message string) (string, error) {
	f.asked = append(f.asked, message)
	return f.password, nil
}

func (f *fakePrompter) Code(ctx context.Context, message string) (string, error) {
	f.asked = append(f.asked, message)
	return f.code, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) contains(s string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.messages {
		if strings.Contains(m, s) {
			return true
		}
	}
	return false
}

type memArchive struct {
	mu    sync.Mutex
	names []string
}

func (a *memArchive) Save(ctx context.Context, name string, png []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names = append(a.names, name)
	return "mem://" + name, nil
}

func (a *memArchive) has(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, n := range a.names {
		if n == name {
			return true
		}
	}
	return false
}

// signedInHub scripts a hub where user is already signed in and the games
// tab lists the given offers
func signedInHub(s *fakeSession, user string, internal, external []string) *fakePage {
	p := s.main
	p.counts[selUser] = 1
	p.counts[selGamesTab] = 1
	p.counts[selGames] = 1
	p.texts[selUser] = user
	p.allTexts[selInternal+" "+selCardTitle] = internal
	p.allTexts[selExternal+" "+selCardTitle] = external

	for _, title := range internal {
		p.onClick[cardWithTitle(selInternal, title)+" "+selClaimGame] = func(p *fakePage) {
			p.removeTitle(selInternal+" "+selCardTitle, title)
		}
	}
	return p
}
