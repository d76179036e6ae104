package cookies

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/elsanchez/free-games-claimer/internal/browser"
)

// NetscapeCookie represents a single cookie from Netscape format
type NetscapeCookie struct {
	Domain     string
	Flag       string // include subdomains
	Path       string
	Secure     bool
	Expiration int64 // Unix timestamp, 0 for session cookies
	Name       string
	Value      string
	HTTPOnly   bool
}

// CookieParser handles parsing of Netscape cookie format files
type CookieParser struct{}

// NewCookieParser creates a new cookie parser
func NewCookieParser() *CookieParser {
	return &CookieParser{}
}

// ParseFile parses a Netscape format cookie file
func (p *CookieParser) ParseFile(path string) ([]NetscapeCookie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cookie file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads cookies in the format: domain	flag	path	secure	expiration	name	value
func (p *CookieParser) Parse(r io.Reader) ([]NetscapeCookie, error) {
	var cookies []NetscapeCookie
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// curl marks HttpOnly cookies with this prefix instead of a comment
		httpOnly := strings.HasPrefix(line, "#HttpOnly_")
		if httpOnly {
			line = strings.TrimPrefix(line, "#HttpOnly_")
		}

		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			fields = strings.Fields(line)
			if len(fields) < 7 {
				return nil, fmt.Errorf("line %d: invalid format (expected 7 fields, got %d)", lineNum, len(fields))
			}
		}

		expiration, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid expiration timestamp: %w", lineNum, err)
		}

		value := fields[6]
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = strings.Trim(value, "\"")
		}

		cookies = append(cookies, NetscapeCookie{
			Domain:     fields[0],
			Flag:       fields[1],
			Path:       fields[2],
			Secure:     strings.ToUpper(fields[3]) == "TRUE",
			Expiration: expiration,
			Name:       fields[5],
			Value:      value,
			HTTPOnly:   httpOnly,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	if len(cookies) == 0 {
		return nil, fmt.Errorf("no valid cookies found in file")
	}

	return cookies, nil
}

// FilterDomain keeps cookies whose domain is domain or one of its subdomains
func (p *CookieParser) FilterDomain(cookies []NetscapeCookie, domain string) []NetscapeCookie {
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	var out []NetscapeCookie
	for _, c := range cookies {
		d := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
		if d == domain || strings.HasSuffix(d, "."+domain) {
			out = append(out, c)
		}
	}
	return out
}

// ToBrowser converts cookies for seeding into a browser session
func (p *CookieParser) ToBrowser(cookies []NetscapeCookie) []browser.Cookie {
	out := make([]browser.Cookie, 0, len(cookies))
	for _, c := range cookies {
		bc := browser.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if c.Expiration > 0 {
			bc.Expires = time.Unix(c.Expiration, 0)
		}
		out = append(out, bc)
	}
	return out
}
