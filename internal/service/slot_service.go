package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"slotswapper/internal/db"
	apperr "slotswapper/internal/errors"
	"slotswapper/internal/repository"
)

// SlotService covers the non-swap slot paths: owner-scoped CRUD plus the
// BUSY/SWAPPABLE toggle. A slot pinned by an open negotiation (SWAP_PENDING)
// cannot be toggled or deleted here; only the swap engine moves it on.
type SlotService struct {
	Repo repository.SlotRepository
}

func NewSlotService(repo repository.SlotRepository) *SlotService {
	return &SlotService{Repo: repo}
}

func validateSlotFields(title string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return apperr.InvalidOperation("title is required")
	}
	if len(title) > db.MaxSlotTitleLen {
		return apperr.InvalidOperation("title is too long")
	}
	if start.IsZero() || end.IsZero() {
		return apperr.InvalidOperation("start time and end time are required")
	}
	if !start.Before(end) {
		return apperr.InvalidOperation("end time must be after start time")
	}
	return nil
}

func (s *SlotService) CreateSlot(ownerID uuid.UUID, title string, start, end time.Time, status string) (*db.Slot, error) {
	if err := validateSlotFields(title, start, end); err != nil {
		return nil, err
	}
	if status == "" {
		status = db.SlotStatusBusy
	}
	if status != db.SlotStatusBusy && status != db.SlotStatusSwappable {
		return nil, apperr.InvalidOperation("status must be BUSY or SWAPPABLE")
	}

	slot := &db.Slot{
		OwnerID:   ownerID,
		Title:     strings.TrimSpace(title),
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	if err := s.Repo.Create(slot); err != nil {
		return nil, apperr.Internal("could not create slot", err)
	}
	return slot, nil
}

// getOwned loads a slot and hides its existence from non-owners.
func (s *SlotService) getOwned(callerID, slotID uuid.UUID) (*db.Slot, error) {
	slot, err := s.Repo.GetByID(slotID)
	if err != nil {
		return nil, apperr.Internal("could not load slot", err)
	}
	if slot == nil || slot.OwnerID != callerID {
		return nil, apperr.NotFound("slot not found")
	}
	return slot, nil
}

func (s *SlotService) GetSlot(callerID, slotID uuid.UUID) (*db.Slot, error) {
	return s.getOwned(callerID, slotID)
}

func (s *SlotService) ListMySlots(callerID uuid.UUID) ([]db.Slot, error) {
	slots, err := s.Repo.ListByOwner(callerID)
	if err != nil {
		return nil, apperr.Internal("could not list slots", err)
	}
	return slots, nil
}

func (s *SlotService) UpdateSlot(callerID, slotID uuid.UUID, title string, start, end time.Time) (*db.Slot, error) {
	slot, err := s.getOwned(callerID, slotID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		slot.Title = strings.TrimSpace(title)
	}
	if !start.IsZero() {
		slot.StartTime = start
	}
	if !end.IsZero() {
		slot.EndTime = end
	}
	if err := validateSlotFields(slot.Title, slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(slot); err != nil {
		return nil, apperr.Internal("could not update slot", err)
	}
	return slot, nil
}

// SetSlotStatus toggles BUSY <-> SWAPPABLE. SWAP_PENDING is never a valid
// input here, and a slot already pinned to SWAP_PENDING stays pinned until
// its negotiation resolves.
func (s *SlotService) SetSlotStatus(callerID, slotID uuid.UUID, status string) (*db.Slot, error) {
	if status != db.SlotStatusBusy && status != db.SlotStatusSwappable {
		return nil, apperr.InvalidOperation("status must be BUSY or SWAPPABLE")
	}
	slot, err := s.getOwned(callerID, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status == db.SlotStatusSwapPending {
		return nil, apperr.InvalidState("slot has a pending swap request")
	}

	if err := s.Repo.UpdateStatus(slot.ID, status); err != nil {
		return nil, apperr.Internal("could not update slot status", err)
	}
	slot.Status = status
	return slot, nil
}

// DeleteSlot refuses to delete a SWAP_PENDING slot: removing it would orphan
// the open swap request referencing it.
func (s *SlotService) DeleteSlot(callerID, slotID uuid.UUID) error {
	slot, err := s.getOwned(callerID, slotID)
	if err != nil {
		return err
	}
	if slot.Status == db.SlotStatusSwapPending {
		return apperr.InvalidState("slot has a pending swap request")
	}

	if err := s.Repo.Delete(slot.ID); err != nil {
		return apperr.Internal("could not delete slot", err)
	}
	return nil
}
