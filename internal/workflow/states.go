package workflow

import (
	"fmt"
	"strings"
)

// URLClaim is the claim hub
const URLClaim = "https://gaming.amazon.com/home"

// Selectors of the claim hub and the sign-in pages
const (
	selSignIn       = `button:has-text("Sign in")`
	selUser         = `[data-a-target="user-dropdown-first-name-text"]`
	selCookieBanner = `[aria-label="Cookies usage disclaimer banner"] button:has-text("Accept Cookies")`

	selEmail          = `[name=email]`
	selPassword       = `[name=password]`
	selRememberMe     = `[name=rememberMe]`
	selSubmit         = `input[type="submit"]`
	selLoginAlert     = `.a-alert-content`
	selRememberDevice = `[name=rememberDevice]`
	selOTP            = `input[name=otpCode]`

	selGamesTab  = `button[data-type="Game"]`
	selGames     = `div[data-a-target="offer-list-FGWP_FULL"]`
	selCollected = selGames + ` p:has-text("Collected")`
	selCard      = selGames + ` [data-a-target="item-card"]`
	selCardTitle = `.item-card-details__body__primary`
	selInternal  = selCard + `:has-text("Claim game")`
	selClaimGame = `button:has-text("Claim game")`
	selExternal  = selCard + `:has(p:text-is("Claim"))`
	selClaimLink = `p:text-is("Claim")`
	selClaimNow  = `button:has-text("Claim now")`
	selComplete  = `button:has-text("Complete Claim")`
	selLinkAcct  = `div:has-text("Link game account")`
	selSubtitle  = `[data-a-target="hero-header-subtitle"]`
	selCodeInput = `input[type="text"]`
)

// State is a detectable step of the claim hub
type State int

const (
	StateLoading State = iota
	StateLoginLoop
	StateSignedIn
	StateClaimInternal
	StateClaimExternal
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoginLoop:
		return "login"
	case StateSignedIn:
		return "signed-in"
	case StateClaimInternal:
		return "claim-internal"
	case StateClaimExternal:
		return "claim-external"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func isLoginURL(u string) bool    { return strings.Contains(u, "/ap/signin") }
func isMFAURL(u string) bool      { return strings.Contains(u, "/ap/mfa") }
func isSignedInURL(u string) bool { return u == URLClaim+"?signedIn=true" }

// cssString quotes s for use inside a selector
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// cardWithTitle selects the card among base whose title is exactly title
func cardWithTitle(base, title string) string {
	return fmt.Sprintf(`%s:has(%s:text-is(%s))`, base, selCardTitle, cssString(title))
}

// stripQuery drops the query string of a URL
func stripQuery(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
