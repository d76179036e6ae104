package cookies

import (
	"context"
	"fmt"

	"github.com/elsanchez/free-games-claimer/internal/browser"
)

// DefaultDomain is the cookie domain of the storefront and its sign-in pages
const DefaultDomain = "amazon.com"

// ImportOptions selects where cookies come from. Exactly one of FilePath and
// Browser is used; FilePath wins when both are set.
type ImportOptions struct {
	FilePath string
	Browser  string
	Domain   string
}

// ImportResult summarizes a finished import
type ImportResult struct {
	Count      int
	Validation *ValidationResult
}

// cookieSource abstracts kooky so imports can be tested without a desktop browser
type cookieSource interface {
	Extract(ctx context.Context, browser, domain string) ([]NetscapeCookie, error)
}

// CookieImporter seeds a browser session with an existing login
type CookieImporter struct {
	parser    *CookieParser
	validator *CookieValidator
	extractor cookieSource
}

// NewCookieImporter creates a new cookie importer
func NewCookieImporter() *CookieImporter {
	return &CookieImporter{
		parser:    NewCookieParser(),
		validator: NewCookieValidator(),
		extractor: NewBrowserExtractor(),
	}
}

// Import reads cookies and adds them to session
func (i *CookieImporter) Import(ctx context.Context, session browser.Session, opts ImportOptions) (*ImportResult, error) {
	domain := opts.Domain
	if domain == "" {
		domain = DefaultDomain
	}

	var cookies []NetscapeCookie
	var err error

	switch {
	case opts.FilePath != "":
		cookies, err = i.parser.ParseFile(opts.FilePath)
		if err != nil {
			return nil, fmt.Errorf("parse cookie file: %w", err)
		}
		cookies = i.parser.FilterDomain(cookies, domain)
	case opts.Browser != "":
		cookies, err = i.extractor.Extract(ctx, opts.Browser, domain)
		if err != nil {
			return nil, fmt.Errorf("extract cookies: %w", err)
		}
	default:
		return nil, fmt.Errorf("either a cookie file or a browser is required")
	}

	validation := i.validator.ValidateExpiration(cookies)
	if !validation.IsValid {
		return nil, fmt.Errorf("cookies for %s unusable: %s", domain, validation.Message)
	}

	if err := session.AddCookies(ctx, i.parser.ToBrowser(cookies)); err != nil {
		return nil, err
	}

	return &ImportResult{Count: len(cookies), Validation: validation}, nil
}
