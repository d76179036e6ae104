package repository

import (
	"context"

	"github.com/elsanchez/free-games-claimer/internal/domain"
)

// ClaimRepository persists the claim library between runs
type ClaimRepository interface {
	// Load returns every recorded account. A missing store yields an empty library.
	Load(ctx context.Context) (domain.Library, error)

	// Save writes lib. Entries already persisted are never replaced or removed.
	Save(ctx context.Context, lib domain.Library) error

	Close() error
}
