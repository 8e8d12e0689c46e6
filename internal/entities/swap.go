package entities

import (
	"time"

	"github.com/google/uuid"
)

// SwapRequestDetail is a swap request joined with both slots, the shape every
// swap endpoint returns.
type SwapRequestDetail struct {
	ID            uuid.UUID    `json:"id"`
	Status        string       `json:"status"`
	RequesterSlot SlotResponse `json:"requester_slot"`
	TargetSlot    SlotResponse `json:"target_slot"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// SwapRequestLists splits a user's requests by direction: incoming requests
// target a slot the user owns, outgoing ones offer a slot the user owns.
type SwapRequestLists struct {
	Incoming []SwapRequestDetail `json:"incoming"`
	Outgoing []SwapRequestDetail `json:"outgoing"`
}
