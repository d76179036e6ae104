// Package browser defines the narrow page interface the claim workflow drives
// and its playwright implementation.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when a wait exceeds the session timeout
var ErrTimeout = errors.New("timeout waiting for page")

// Page is a single browser tab. Selectors use playwright syntax
// (`button:has-text("Sign in")`); element operations act on the first match.
type Page interface {
	Goto(ctx context.Context, url string) error
	URL() string

	// Count returns the number of elements currently matching selector
	Count(ctx context.Context, selector string) (int, error)

	// WaitVisible blocks until selector matches a visible element
	WaitVisible(ctx context.Context, selector string) error

	// WaitURL blocks until match accepts the current URL
	WaitURL(ctx context.Context, match func(url string) bool) error

	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Type(ctx context.Context, selector, text string) error
	Check(ctx context.Context, selector string) error

	InnerText(ctx context.Context, selector string) (string, error)
	AllInnerTexts(ctx context.Context, selector string) ([]string, error)
	Attribute(ctx context.Context, selector, name string) (string, error)
	InputValue(ctx context.Context, selector string) (string, error)

	// Screenshot captures selector, or the page when selector is empty
	Screenshot(ctx context.Context, selector string, fullPage bool) ([]byte, error)

	// ExpectResponse runs action and returns the body of the first response
	// whose URL starts with urlPrefix
	ExpectResponse(ctx context.Context, urlPrefix string, action func() error) ([]byte, error)

	Close() error
}

// Session is a browser context; all of its pages share cookies
type Session interface {
	// Page returns the initial tab
	Page(ctx context.Context) (Page, error)
	NewPage(ctx context.Context) (Page, error)

	// SetTimeout changes the default wait budget for every page
	SetTimeout(d time.Duration)
	Timeout() time.Duration

	AddCookies(ctx context.Context, cookies []Cookie) error
	Close() error
}

// Cookie is a browser cookie to seed into a session
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
}
