package api

import (
	"time"

	"github.com/google/uuid"

	"slotswapper/internal/entities"
)

// Auth
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string                `json:"token"`
	User  entities.OwnerDisplay `json:"user"`
}

// Slots
type CreateSlotRequest struct {
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status,omitempty"`
}

type UpdateSlotRequest struct {
	Title     string    `json:"title,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status"`
}

// Swaps
type SwapProposalRequest struct {
	MySlotID    uuid.UUID `json:"my_slot_id"`
	TheirSlotID uuid.UUID `json:"their_slot_id"`
}

type SwapResponseRequest struct {
	Accepted bool `json:"accepted"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
