package cookies

import (
	"fmt"
	"time"
)

// Validation statuses
const (
	StatusValid   = "valid"
	StatusExpired = "expired"
	StatusInvalid = "invalid"
)

// ValidationResult contains the result of cookie validation
type ValidationResult struct {
	IsValid   bool
	Status    string
	Message   string
	ExpiresAt *time.Time
}

// CookieValidator checks cookie expiration before seeding a session
type CookieValidator struct {
	now func() time.Time
}

// NewCookieValidator creates a new cookie validator
func NewCookieValidator() *CookieValidator {
	return &CookieValidator{now: time.Now}
}

// ValidateExpiration checks if cookies are expired. Session cookies
// (expiration 0) never count as expired.
func (v *CookieValidator) ValidateExpiration(cookies []NetscapeCookie) *ValidationResult {
	if len(cookies) == 0 {
		return &ValidationResult{
			IsValid: false,
			Status:  StatusInvalid,
			Message: "no cookies found",
		}
	}

	now := v.now().Unix()
	expiredCount := 0
	var earliest int64

	for _, cookie := range cookies {
		if cookie.Expiration == 0 {
			continue
		}
		if earliest == 0 || cookie.Expiration < earliest {
			earliest = cookie.Expiration
		}
		if cookie.Expiration < now {
			expiredCount++
		}
	}

	var expiresAt *time.Time
	if earliest > 0 {
		t := time.Unix(earliest, 0)
		expiresAt = &t
	}

	if expiredCount == len(cookies) {
		return &ValidationResult{
			IsValid:   false,
			Status:    StatusExpired,
			Message:   fmt.Sprintf("all %d cookies expired", len(cookies)),
			ExpiresAt: expiresAt,
		}
	}

	// some expired cookies are usually preferences; the session may still work
	if expiredCount > 0 {
		return &ValidationResult{
			IsValid:   true,
			Status:    StatusExpired,
			Message:   fmt.Sprintf("%d of %d cookies expired", expiredCount, len(cookies)),
			ExpiresAt: expiresAt,
		}
	}

	msg := fmt.Sprintf("all %d cookies valid", len(cookies))
	if expiresAt != nil {
		msg += ", expires " + expiresAt.Format("2006-01-02")
	}
	return &ValidationResult{
		IsValid:   true,
		Status:    StatusValid,
		Message:   msg,
		ExpiresAt: expiresAt,
	}
}
