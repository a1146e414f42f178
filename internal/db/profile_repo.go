package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"agendapulse/internal/types"
)

// ProfileRepository provides read access to the profiles table.
type ProfileRepository struct {
	db DBTX
}

// NewProfileRepository creates a ProfileRepository backed by the given
// connection (pool or transaction).
func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID returns the profile with the given id, or a not-found AppError.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*types.Profile, error) {
	var p types.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(account_id, '') FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.AccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundProfile, "profile not found", err)
		}
		return nil, types.NewAppError(types.ErrCodeStoreQuery, "getting profile", err)
	}

	return &p, nil
}
