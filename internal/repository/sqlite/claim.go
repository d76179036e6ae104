package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/repository"
)

// ClaimRepository implements repository.ClaimRepository on SQLite
type ClaimRepository struct {
	db *sqlx.DB
}

// Compiletime check
var _ repository.ClaimRepository = (*ClaimRepository)(nil)

// NewClaimRepository creates a claim repository
func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// claimRow maps the claims table
type claimRow struct {
	ID        int64          `db:"id"`
	Account   string         `db:"account"`
	Title     string         `db:"title"`
	Store     string         `db:"store"`
	URL       sql.NullString `db:"url"`
	Code      sql.NullString `db:"code"`
	ClaimedAt int64          `db:"claimed_at"`
}

// Load reads every claim into a library
func (r *ClaimRepository) Load(ctx context.Context) (domain.Library, error) {
	var rows []claimRow

	query := `SELECT * FROM claims ORDER BY account, claimed_at`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load claims: %w", err)
	}

	lib := domain.Library{}
	for _, row := range rows {
		lib.Account(row.Account).Add(rowToDomain(&row))
	}
	return lib, nil
}

// Save inserts entries that are not stored yet; existing rows are left untouched
func (r *ClaimRepository) Save(ctx context.Context, lib domain.Library) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR IGNORE INTO claims (account, title, store, url, code, claimed_at)
		VALUES (:account, :title, :store, :url, :code, :claimed_at)
	`

	for _, user := range lib.Users() {
		for _, e := range lib[user].Entries() {
			if _, err := tx.NamedExecContext(ctx, query, map[string]interface{}{
				"account":    user,
				"title":      e.Title,
				"store":      e.Store,
				"url":        nullString(e.URL),
				"code":       nullString(e.Code),
				"claimed_at": e.Time.Unix(),
			}); err != nil {
				return fmt.Errorf("insert claim %q: %w", e.Title, err)
			}
		}
	}

	return tx.Commit()
}

// Close is handled by Database; the repository does not own the connection
func (r *ClaimRepository) Close() error {
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Helper: row → domain
func rowToDomain(row *claimRow) domain.ClaimEntry {
	return domain.ClaimEntry{
		Title: row.Title,
		Store: row.Store,
		URL:   row.URL.String,
		Code:  row.Code.String,
		Time:  time.Unix(row.ClaimedAt, 0),
	}
}
