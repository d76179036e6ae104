package cookies

import (
	"context"
	"fmt"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"
)

// BrowserExtractor reads cookies out of locally installed desktop browsers
type BrowserExtractor struct{}

// NewBrowserExtractor creates a new browser cookie extractor
func NewBrowserExtractor() *BrowserExtractor {
	return &BrowserExtractor{}
}

// SupportedBrowsers returns a list of supported browser names
func (e *BrowserExtractor) SupportedBrowsers() []string {
	return []string{
		"chrome",
		"chromium",
		"firefox",
		"edge",
		"opera",
	}
}

// Extract returns the cookies of browser (any browser when empty) for domain and its subdomains
func (e *BrowserExtractor) Extract(ctx context.Context, browser, domain string) ([]NetscapeCookie, error) {
	browser = strings.ToLower(browser)

	var filters []kooky.Filter
	if domain != "" {
		filters = append(filters, kooky.DomainHasSuffix(domain))
	}

	cookies, err := kooky.ReadCookies(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("read cookies from browser: %w", err)
	}

	out := make([]NetscapeCookie, 0, len(cookies))
	for _, cookie := range cookies {
		if browser != "" && cookie.Browser != nil {
			if !strings.Contains(strings.ToLower(cookie.Browser.Browser()), browser) {
				continue
			}
		}

		d := cookie.Domain
		if !strings.HasPrefix(d, ".") && d != "" {
			d = "." + d
		}

		flag := "FALSE"
		if strings.HasPrefix(d, ".") {
			flag = "TRUE"
		}

		expiration := cookie.Expires.Unix()
		if cookie.Expires.IsZero() || expiration < 0 {
			expiration = 0
		}

		out = append(out, NetscapeCookie{
			Domain:     d,
			Flag:       flag,
			Path:       cookie.Path,
			Secure:     cookie.Secure,
			Expiration: expiration,
			Name:       cookie.Name,
			Value:      cookie.Value,
			HTTPOnly:   cookie.HttpOnly,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no cookies found for browser '%s' and domain '%s'", browser, domain)
	}

	return out, nil
}
