package repository

import (
	"database/sql"
	"fmt"

	"slotswapper/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ReleaseExpiredListings flips SWAPPABLE slots whose end time has passed back
// to BUSY, returning how many rows changed. SWAP_PENDING rows are out of
// bounds here; an open negotiation resolves through the engine only.
func (r *JobRepository) ReleaseExpiredListings() (int64, error) {
	query := `
		UPDATE slots SET status = $1, updated_at = NOW()
		WHERE status = $2 AND end_time < NOW()`
	result, err := r.DB.Exec(query, db.SlotStatusBusy, db.SlotStatusSwappable)
	if err != nil {
		return 0, fmt.Errorf("error releasing expired listings: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return affected, nil
}
