package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet. The partial unique
// index on swap_requests enforces at most one PENDING request per unordered
// slot pair at the database, so a race between two concurrent proposals on
// the same pair cannot create duplicates.
func Migrate(database *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS slots (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id   UUID NOT NULL REFERENCES users(id),
		title      TEXT NOT NULL CHECK (title <> ''),
		start_time TIMESTAMPTZ NOT NULL,
		end_time   TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL DEFAULT 'BUSY'
			CHECK (status IN ('BUSY', 'SWAPPABLE', 'SWAP_PENDING')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (start_time < end_time)
	);

	CREATE INDEX IF NOT EXISTS slots_owner_idx ON slots (owner_id);
	CREATE INDEX IF NOT EXISTS slots_status_start_idx ON slots (status, start_time);

	-- No FK to slots: the ledger is append-only and must outlive its slots.
	-- A slot may be deleted once its negotiations are resolved; the
	-- resolved ledger rows stay behind as the audit trail.
	CREATE TABLE IF NOT EXISTS swap_requests (
		id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		requester_slot_id UUID NOT NULL,
		target_slot_id    UUID NOT NULL,
		status            TEXT NOT NULL DEFAULT 'PENDING'
			CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED')),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (requester_slot_id <> target_slot_id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS swap_requests_pending_pair_idx
		ON swap_requests (
			LEAST(requester_slot_id, target_slot_id),
			GREATEST(requester_slot_id, target_slot_id)
		)
		WHERE status = 'PENDING';
	`
	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}
