package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"slotswapper/internal/db"
	"slotswapper/internal/entities"
)

// ErrDuplicatePending is returned when an insert trips the partial unique
// index on pending swap pairs.
var ErrDuplicatePending = errors.New("pending swap request already exists for this pair")

// SwapTx is the view of the slot store and swap ledger inside one atomic
// unit. Reads lock the rows they return, so every check the engine performs
// holds until the transaction commits.
type SwapTx interface {
	GetSlotForUpdate(id uuid.UUID) (*db.Slot, error)
	GetRequestForUpdate(id uuid.UUID) (*db.SwapRequest, error)
	FindPendingRequestForPair(a, b uuid.UUID) (*db.SwapRequest, error)
	CreateRequest(req *db.SwapRequest) error
	UpdateRequestStatus(id uuid.UUID, status string) error
	UpdateSlotStatus(id uuid.UUID, status string) error
	UpdateSlotOwnerAndStatus(id, ownerID uuid.UUID, status string) error
}

// SwapRepository is the storage contract of the negotiation engine. InTx
// scopes one transaction handle to fn and releases it on every exit path;
// fn returning an error rolls the whole unit back.
type SwapRepository interface {
	InTx(ctx context.Context, fn func(tx SwapTx) error) error
	ListRequestsTargetingOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error)
	ListRequestsOfferedByOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error)
}

type swapRepository struct {
	db *sql.DB
}

func NewSwapRepository(database *sql.DB) SwapRepository {
	return &swapRepository{db: database}
}

func (r *swapRepository) InTx(ctx context.Context, fn func(tx SwapTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if err := fn(&swapTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

type swapTx struct {
	tx *sql.Tx
}

func (t *swapTx) GetSlotForUpdate(id uuid.UUID) (*db.Slot, error) {
	var slot db.Slot
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1 FOR UPDATE`
	err := t.tx.QueryRow(query, id).Scan(
		&slot.ID, &slot.OwnerID, &slot.Title, &slot.StartTime, &slot.EndTime,
		&slot.Status, &slot.CreatedAt, &slot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error locking slot: %w", err)
	}
	return &slot, nil
}

func (t *swapTx) GetRequestForUpdate(id uuid.UUID) (*db.SwapRequest, error) {
	var req db.SwapRequest
	query := `
		SELECT id, requester_slot_id, target_slot_id, status, created_at, updated_at
		FROM swap_requests WHERE id = $1 FOR UPDATE`
	err := t.tx.QueryRow(query, id).Scan(
		&req.ID, &req.RequesterSlotID, &req.TargetSlotID, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error locking swap request: %w", err)
	}
	return &req, nil
}

func (t *swapTx) FindPendingRequestForPair(a, b uuid.UUID) (*db.SwapRequest, error) {
	var req db.SwapRequest
	query := `
		SELECT id, requester_slot_id, target_slot_id, status, created_at, updated_at
		FROM swap_requests
		WHERE status = $1
		  AND ((requester_slot_id = $2 AND target_slot_id = $3)
		    OR (requester_slot_id = $3 AND target_slot_id = $2))`
	err := t.tx.QueryRow(query, db.SwapStatusPending, a, b).Scan(
		&req.ID, &req.RequesterSlotID, &req.TargetSlotID, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying pending request for pair: %w", err)
	}
	return &req, nil
}

func (t *swapTx) CreateRequest(req *db.SwapRequest) error {
	query := `
		INSERT INTO swap_requests (requester_slot_id, target_slot_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := t.tx.QueryRow(query, req.RequesterSlotID, req.TargetSlotID, req.Status).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePending
		}
		return fmt.Errorf("error inserting swap request: %w", err)
	}
	return nil
}

func (t *swapTx) UpdateRequestStatus(id uuid.UUID, status string) error {
	_, err := t.tx.Exec(
		`UPDATE swap_requests SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("error updating swap request status: %w", err)
	}
	return nil
}

func (t *swapTx) UpdateSlotStatus(id uuid.UUID, status string) error {
	_, err := t.tx.Exec(
		`UPDATE slots SET status = $1, updated_at = NOW() WHERE id = $2`, status, id,
	)
	if err != nil {
		return fmt.Errorf("error updating slot status in transaction: %w", err)
	}
	return nil
}

func (t *swapTx) UpdateSlotOwnerAndStatus(id, ownerID uuid.UUID, status string) error {
	_, err := t.tx.Exec(
		`UPDATE slots SET owner_id = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		ownerID, status, id,
	)
	if err != nil {
		return fmt.Errorf("error updating slot owner in transaction: %w", err)
	}
	return nil
}

const swapDetailSelect = `
	SELECT sr.id, sr.status, sr.created_at, sr.updated_at,
	       rs.id, rs.owner_id, rs.title, rs.start_time, rs.end_time, rs.status, rs.created_at, rs.updated_at,
	       ts.id, ts.owner_id, ts.title, ts.start_time, ts.end_time, ts.status, ts.created_at, ts.updated_at
	FROM swap_requests sr
	JOIN slots rs ON sr.requester_slot_id = rs.id
	JOIN slots ts ON sr.target_slot_id = ts.id`

func scanSwapDetail(row interface {
	Scan(dest ...interface{}) error
}) (*entities.SwapRequestDetail, error) {
	var d entities.SwapRequestDetail
	err := row.Scan(
		&d.ID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.RequesterSlot.ID, &d.RequesterSlot.OwnerID, &d.RequesterSlot.Title,
		&d.RequesterSlot.StartTime, &d.RequesterSlot.EndTime, &d.RequesterSlot.Status,
		&d.RequesterSlot.CreatedAt, &d.RequesterSlot.UpdatedAt,
		&d.TargetSlot.ID, &d.TargetSlot.OwnerID, &d.TargetSlot.Title,
		&d.TargetSlot.StartTime, &d.TargetSlot.EndTime, &d.TargetSlot.Status,
		&d.TargetSlot.CreatedAt, &d.TargetSlot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *swapRepository) listRequestDetails(query string, args ...interface{}) ([]entities.SwapRequestDetail, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying swap requests: %w", err)
	}
	defer rows.Close()

	var details []entities.SwapRequestDetail
	for rows.Next() {
		d, err := scanSwapDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning swap request detail: %w", err)
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

// ListRequestsTargetingOwner returns requests proposed to ownerID, newest
// first. Direction follows who held each slot when the request was made:
// acceptance exchanges the two owner ids, so for ACCEPTED rows the pre-swap
// target owner is found on the requester slot. The filter runs at the storage
// layer so the read side never has to post-filter a broad fetch.
func (r *swapRepository) ListRequestsTargetingOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error) {
	query := swapDetailSelect + `
		WHERE (sr.status <> $2 AND ts.owner_id = $1)
		   OR (sr.status = $2 AND rs.owner_id = $1)
		ORDER BY sr.created_at DESC`
	return r.listRequestDetails(query, ownerID, db.SwapStatusAccepted)
}

// ListRequestsOfferedByOwner returns requests proposed by ownerID, newest
// first, with the same pre-swap attribution for ACCEPTED rows.
func (r *swapRepository) ListRequestsOfferedByOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error) {
	query := swapDetailSelect + `
		WHERE (sr.status <> $2 AND rs.owner_id = $1)
		   OR (sr.status = $2 AND ts.owner_id = $1)
		ORDER BY sr.created_at DESC`
	return r.listRequestDetails(query, ownerID, db.SwapStatusAccepted)
}
