package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"slotswapper/internal/db"
	"slotswapper/internal/entities"
)

const slotColumns = `id, owner_id, title, start_time, end_time, status, created_at, updated_at`

// SlotRepository is the slot store consumed by the non-swap paths. Writes
// here never touch SWAP_PENDING rows; those transitions belong to the swap
// engine's transactional store.
type SlotRepository interface {
	Create(slot *db.Slot) error
	GetByID(id uuid.UUID) (*db.Slot, error)
	ListByOwner(ownerID uuid.UUID) ([]db.Slot, error)
	Update(slot *db.Slot) error
	UpdateStatus(id uuid.UUID, status string) error
	Delete(id uuid.UUID) error
	ListSwappableExcludingOwner(ownerID uuid.UUID) ([]entities.MarketplaceSlot, error)
}

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(database *sql.DB) SlotRepository {
	return &slotRepository{db: database}
}

func (r *slotRepository) Create(slot *db.Slot) error {
	query := `
		INSERT INTO slots (owner_id, title, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		slot.OwnerID, slot.Title, slot.StartTime, slot.EndTime, slot.Status,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting slot: %w", err)
	}
	return nil
}

func (r *slotRepository) GetByID(id uuid.UUID) (*db.Slot, error) {
	var slot db.Slot
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&slot.ID, &slot.OwnerID, &slot.Title, &slot.StartTime, &slot.EndTime,
		&slot.Status, &slot.CreatedAt, &slot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying slot: %w", err)
	}
	return &slot, nil
}

func (r *slotRepository) ListByOwner(ownerID uuid.UUID) ([]db.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE owner_id = $1 ORDER BY start_time ASC`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying slots by owner: %w", err)
	}
	defer rows.Close()

	var slots []db.Slot
	for rows.Next() {
		var slot db.Slot
		if err := rows.Scan(
			&slot.ID, &slot.OwnerID, &slot.Title, &slot.StartTime, &slot.EndTime,
			&slot.Status, &slot.CreatedAt, &slot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *slotRepository) Update(slot *db.Slot) error {
	query := `
		UPDATE slots SET title = $1, start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`
	err := r.db.QueryRow(query, slot.Title, slot.StartTime, slot.EndTime, slot.ID).
		Scan(&slot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating slot: %w", err)
	}
	return nil
}

func (r *slotRepository) UpdateStatus(id uuid.UUID, status string) error {
	_, err := r.db.Exec(
		`UPDATE slots SET status = $1, updated_at = NOW() WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("error updating slot status: %w", err)
	}
	return nil
}

func (r *slotRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting slot: %w", err)
	}
	return nil
}

func (r *slotRepository) ListSwappableExcludingOwner(ownerID uuid.UUID) ([]entities.MarketplaceSlot, error) {
	query := `
		SELECT s.id, s.owner_id, s.title, s.start_time, s.end_time, s.status,
		       s.created_at, s.updated_at,
		       u.id, u.name, u.email
		FROM slots s
		JOIN users u ON s.owner_id = u.id
		WHERE s.status = $1 AND s.owner_id <> $2
		ORDER BY s.start_time ASC`
	rows, err := r.db.Query(query, db.SlotStatusSwappable, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying swappable slots: %w", err)
	}
	defer rows.Close()

	var listings []entities.MarketplaceSlot
	for rows.Next() {
		var m entities.MarketplaceSlot
		if err := rows.Scan(
			&m.ID, &m.OwnerID, &m.Title, &m.StartTime, &m.EndTime, &m.Status,
			&m.CreatedAt, &m.UpdatedAt,
			&m.Owner.ID, &m.Owner.Name, &m.Owner.Email,
		); err != nil {
			return nil, fmt.Errorf("error scanning swappable slot: %w", err)
		}
		listings = append(listings, m)
	}
	return listings, rows.Err()
}
