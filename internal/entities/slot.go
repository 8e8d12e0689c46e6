package entities

import (
	"time"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerDisplay is the owner identity attached to marketplace listings.
type OwnerDisplay struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// MarketplaceSlot is a swappable slot joined with its owner's display
// identity, as returned by the swappable-slots listing.
type MarketplaceSlot struct {
	SlotResponse
	Owner OwnerDisplay `json:"owner"`
}
