package redeem

import (
	"testing"

	"github.com/elsanchez/free-games-claimer/internal/domain"
)

func TestParseStore(t *testing.T) {
	tests := []struct {
		subtitle string
		expected string
	}{
		{"3 Full PC Games on Legacy Games", "legacy games"},
		{"Full game for PC on gog.com", "gog.com"},
		{"Full game for PC and MAC on Microsoft Games", "microsoft games"},
		{"Full game for PC on EPIC GAMES", "epic games"},
		{"Game on the go on Battle.net", "battle.net"},
		{"  Legacy Games  ", "legacy games"},
	}

	for _, tt := range tests {
		t.Run(tt.subtitle, func(t *testing.T) {
			if got := ParseStore(tt.subtitle); got != tt.expected {
				t.Errorf("ParseStore(%q) = %q, want %q", tt.subtitle, got, tt.expected)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		store     string
		found     bool
		automatic bool
	}{
		{StoreGOG, true, true},
		{StoreMicrosoft, true, true},
		{StoreLegacy, true, false},
		{"epic games", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			s, ok := Lookup(tt.store)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.store, ok, tt.found)
			}
			if ok && s.Automatic() != tt.automatic {
				t.Errorf("Automatic() = %v, want %v", s.Automatic(), tt.automatic)
			}
		})
	}
}

func TestClassifyGOG(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{`{"reason":"code_used"}`, domain.StatusAlreadyRedeemed},
		{`{"reason":"code_not_found"}`, domain.StatusRedeemNotFound},
		{`{"reason":"Invalid or no captcha"}`, domain.StatusRedeemCaptcha},
		{`{"reason":"something new"}`, domain.StatusRedeemedUnsure},
		{`{}`, domain.StatusRedeemedUnsure},
		{`<html>`, domain.StatusRedeemedUnsure},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			if got := ClassifyGOG([]byte(tt.body)); got != tt.expected {
				t.Errorf("ClassifyGOG(%s) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}

func TestClassifyMicrosoft(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{`{"code":"NotFound","data":[],"innererror":{"code":"TokenNotFound"}}`, domain.StatusRedeemNotFound},
		{`{"code":"Other"}`, domain.StatusRedeemedUnsure},
		{`not json`, domain.StatusRedeemedUnsure},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			if got := ClassifyMicrosoft([]byte(tt.body)); got != tt.expected {
				t.Errorf("ClassifyMicrosoft(%s) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}
