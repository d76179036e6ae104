// Package redeem knows the third-party stores that hand out codes for
// external offers and how to submit those codes.
package redeem

import (
	"context"
	"strings"

	"github.com/elsanchez/free-games-claimer/internal/browser"
	"github.com/elsanchez/free-games-claimer/internal/domain"
)

// Store keys as derived by ParseStore
const (
	StoreGOG       = "gog.com"
	StoreMicrosoft = "microsoft games"
	StoreLegacy    = "legacy games"
)

// Strategy submits a code on a store's redeem page and reports the outcome
// as a notification status
type Strategy interface {
	Redeem(ctx context.Context, page browser.Page, code string) (string, error)
}

// Store describes where and how codes of one store are redeemed
type Store struct {
	Key       string
	RedeemURL string

	// URLSelector, when set, points at a link on the claim page whose href
	// replaces RedeemURL (offer-specific landing pages)
	URLSelector string

	// Strategy is nil for stores that can only be redeemed by hand
	Strategy Strategy
}

// Automatic reports whether codes can be submitted without the operator
func (s Store) Automatic() bool {
	return s.Strategy != nil
}

var stores = map[string]Store{
	StoreGOG: {
		Key:       StoreGOG,
		RedeemURL: "https://www.gog.com/redeem",
		Strategy:  GOG{},
	},
	StoreMicrosoft: {
		Key:       StoreMicrosoft,
		RedeemURL: "https://redeem.microsoft.com",
		Strategy:  Microsoft{},
	},
	StoreLegacy: {
		Key:         StoreLegacy,
		RedeemURL:   "https://www.legacygames.com/primedeal",
		URLSelector: `li:has-text("Click here") a`,
	},
}

// Lookup returns the redeem table entry for a store key
func Lookup(store string) (Store, bool) {
	s, ok := stores[store]
	return s, ok
}

// ParseStore derives the store key from a claim page subtitle such as
// "3 Full PC Games on Legacy Games"
func ParseStore(subtitle string) string {
	s := strings.ToLower(strings.TrimSpace(subtitle))
	if i := strings.LastIndex(s, " on "); i >= 0 {
		s = s[i+len(" on "):]
	}
	return strings.TrimSpace(s)
}

// DefaultStatus is the outcome before (or without) an automatic attempt
const DefaultStatus = domain.StatusRedeem
