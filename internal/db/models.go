package db

import (
	"time"

	"github.com/google/uuid"
)

// Slot statuses. SwapPending is only ever written by the swap engine; the
// slot endpoints toggle between Busy and Swappable.
const (
	SlotStatusBusy        = "BUSY"
	SlotStatusSwappable   = "SWAPPABLE"
	SlotStatusSwapPending = "SWAP_PENDING"
)

// Swap request statuses. Accepted and Rejected are terminal.
const (
	SwapStatusPending  = "PENDING"
	SwapStatusAccepted = "ACCEPTED"
	SwapStatusRejected = "REJECTED"
)

// MaxSlotTitleLen bounds slot titles at creation and update time.
const MaxSlotTitleLen = 200

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Slot struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SwapRequest struct {
	ID              uuid.UUID `json:"id"`
	RequesterSlotID uuid.UUID `json:"requester_slot_id"`
	TargetSlotID    uuid.UUID `json:"target_slot_id"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsTerminal reports whether the request has reached a terminal status.
func (r *SwapRequest) IsTerminal() bool {
	return r.Status == SwapStatusAccepted || r.Status == SwapStatusRejected
}
