package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"slotswapper/internal/db"
	"slotswapper/internal/entities"
	apperr "slotswapper/internal/errors"
	"slotswapper/internal/repository"
)

// SwapService is the negotiation engine. It owns no state of its own; both
// write operations run as one transaction over the slot store and the swap
// ledger, and every precondition is re-checked against row-locked reads
// inside that transaction. A slot can therefore never be pulled into two
// negotiations at once: the second proposal sees SWAP_PENDING and fails.
type SwapService struct {
	Swaps repository.SwapRepository
	Slots repository.SlotRepository
}

func NewSwapService(swaps repository.SwapRepository, slots repository.SlotRepository) *SwapService {
	return &SwapService{Swaps: swaps, Slots: slots}
}

// ListSwappableSlots returns every other user's SWAPPABLE slot, start time
// ascending, each with the owner's display identity attached.
func (s *SwapService) ListSwappableSlots(callerID uuid.UUID) ([]entities.MarketplaceSlot, error) {
	listings, err := s.Slots.ListSwappableExcludingOwner(callerID)
	if err != nil {
		return nil, apperr.Internal("could not list swappable slots", err)
	}
	if listings == nil {
		listings = []entities.MarketplaceSlot{}
	}
	return listings, nil
}

// ProposeSwap opens a negotiation between the caller's slot and another
// user's slot. On success the ledger holds a new PENDING request and both
// slots are SWAP_PENDING; on any validation failure nothing changes.
func (s *SwapService) ProposeSwap(ctx context.Context, callerID, mySlotID, theirSlotID uuid.UUID) (*entities.SwapRequestDetail, error) {
	if mySlotID == theirSlotID {
		return nil, apperr.InvalidOperation("cannot swap a slot with itself")
	}

	var detail *entities.SwapRequestDetail
	err := s.Swaps.InTx(ctx, func(tx repository.SwapTx) error {
		mine, theirs, err := lockSlotPair(tx, mySlotID, theirSlotID)
		if err != nil {
			return err
		}
		if mine == nil || mine.OwnerID != callerID {
			return apperr.NotFound("your slot not found")
		}
		if theirs == nil {
			return apperr.NotFound("target slot not found")
		}
		if mine.Status != db.SlotStatusSwappable {
			return apperr.InvalidState("your slot is not swappable")
		}
		if theirs.Status != db.SlotStatusSwappable {
			return apperr.InvalidState("target slot is not swappable")
		}
		if mine.OwnerID == theirs.OwnerID {
			return apperr.InvalidOperation("cannot swap with yourself")
		}

		existing, err := tx.FindPendingRequestForPair(mySlotID, theirSlotID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("swap request already exists for these slots")
		}

		req := &db.SwapRequest{
			RequesterSlotID: mine.ID,
			TargetSlotID:    theirs.ID,
			Status:          db.SwapStatusPending,
		}
		if err := tx.CreateRequest(req); err != nil {
			if errors.Is(err, repository.ErrDuplicatePending) {
				return apperr.Conflict("swap request already exists for these slots")
			}
			return err
		}
		if err := tx.UpdateSlotStatus(mine.ID, db.SlotStatusSwapPending); err != nil {
			return err
		}
		if err := tx.UpdateSlotStatus(theirs.ID, db.SlotStatusSwapPending); err != nil {
			return err
		}

		mine.Status = db.SlotStatusSwapPending
		theirs.Status = db.SlotStatusSwapPending
		detail = swapDetail(req, mine, theirs)
		return nil
	})
	if err != nil {
		return nil, coerce(err, "could not create swap request")
	}
	return detail, nil
}

// RespondToSwap resolves a pending negotiation. Accepting exchanges the two
// owner ids and parks both slots as BUSY; rejecting releases both slots back
// to SWAPPABLE untouched. Either way the request reaches a terminal status
// in the same transaction, so no caller ever observes a half-applied swap.
func (s *SwapService) RespondToSwap(ctx context.Context, callerID, requestID uuid.UUID, accepted bool) (*entities.SwapRequestDetail, error) {
	var detail *entities.SwapRequestDetail
	err := s.Swaps.InTx(ctx, func(tx repository.SwapTx) error {
		req, err := tx.GetRequestForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperr.NotFound("swap request not found")
		}
		if req.IsTerminal() {
			return apperr.InvalidState("swap request already resolved")
		}

		requesterSlot, targetSlot, err := lockSlotPair(tx, req.RequesterSlotID, req.TargetSlotID)
		if err != nil {
			return err
		}
		if requesterSlot == nil || targetSlot == nil {
			return apperr.Internal("swap request references a missing slot", nil)
		}
		// Only the recipient of the proposal may answer it.
		if targetSlot.OwnerID != callerID {
			return apperr.Forbidden("only the target slot owner can respond")
		}

		if accepted {
			requesterOwner := requesterSlot.OwnerID
			targetOwner := targetSlot.OwnerID
			if err := tx.UpdateSlotOwnerAndStatus(requesterSlot.ID, targetOwner, db.SlotStatusBusy); err != nil {
				return err
			}
			if err := tx.UpdateSlotOwnerAndStatus(targetSlot.ID, requesterOwner, db.SlotStatusBusy); err != nil {
				return err
			}
			if err := tx.UpdateRequestStatus(req.ID, db.SwapStatusAccepted); err != nil {
				return err
			}
			requesterSlot.OwnerID, targetSlot.OwnerID = targetOwner, requesterOwner
			requesterSlot.Status, targetSlot.Status = db.SlotStatusBusy, db.SlotStatusBusy
			req.Status = db.SwapStatusAccepted
		} else {
			if err := tx.UpdateSlotStatus(requesterSlot.ID, db.SlotStatusSwappable); err != nil {
				return err
			}
			if err := tx.UpdateSlotStatus(targetSlot.ID, db.SlotStatusSwappable); err != nil {
				return err
			}
			if err := tx.UpdateRequestStatus(req.ID, db.SwapStatusRejected); err != nil {
				return err
			}
			requesterSlot.Status, targetSlot.Status = db.SlotStatusSwappable, db.SlotStatusSwappable
			req.Status = db.SwapStatusRejected
		}

		detail = swapDetail(req, requesterSlot, targetSlot)
		return nil
	})
	if err != nil {
		return nil, coerce(err, "could not respond to swap request")
	}
	return detail, nil
}

// ListMyRequests returns the caller's requests split by direction, newest
// first. Direction follows who proposed to whom: a request Alice made to Bob
// stays in Alice's outgoing list even after acceptance hands her slot to Bob.
func (s *SwapService) ListMyRequests(callerID uuid.UUID) (*entities.SwapRequestLists, error) {
	incoming, err := s.Swaps.ListRequestsTargetingOwner(callerID)
	if err != nil {
		return nil, apperr.Internal("could not list incoming swap requests", err)
	}
	outgoing, err := s.Swaps.ListRequestsOfferedByOwner(callerID)
	if err != nil {
		return nil, apperr.Internal("could not list outgoing swap requests", err)
	}
	if incoming == nil {
		incoming = []entities.SwapRequestDetail{}
	}
	if outgoing == nil {
		outgoing = []entities.SwapRequestDetail{}
	}
	return &entities.SwapRequestLists{Incoming: incoming, Outgoing: outgoing}, nil
}

// lockSlotPair row-locks two slots in a deterministic order so that two
// transactions touching the same pair cannot deadlock, then hands them back
// in the order they were asked for. Either result may be nil.
func lockSlotPair(tx repository.SwapTx, firstID, secondID uuid.UUID) (*db.Slot, *db.Slot, error) {
	a, b := firstID, secondID
	if b.String() < a.String() {
		a, b = b, a
	}
	slotA, err := tx.GetSlotForUpdate(a)
	if err != nil {
		return nil, nil, err
	}
	slotB, err := tx.GetSlotForUpdate(b)
	if err != nil {
		return nil, nil, err
	}
	if a == firstID {
		return slotA, slotB, nil
	}
	return slotB, slotA, nil
}

func swapDetail(req *db.SwapRequest, requesterSlot, targetSlot *db.Slot) *entities.SwapRequestDetail {
	return &entities.SwapRequestDetail{
		ID:            req.ID,
		Status:        req.Status,
		RequesterSlot: slotResponse(requesterSlot),
		TargetSlot:    slotResponse(targetSlot),
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

func slotResponse(slot *db.Slot) entities.SlotResponse {
	return entities.SlotResponse{
		ID:        slot.ID,
		OwnerID:   slot.OwnerID,
		Title:     slot.Title,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    slot.Status,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
}

// coerce keeps taxonomy errors as-is and wraps anything else, typically a
// failed commit, as Internal. A failed transaction left no partial state, so
// the caller may retry the whole operation.
func coerce(err error, message string) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e
	}
	return apperr.Internal(message, err)
}
