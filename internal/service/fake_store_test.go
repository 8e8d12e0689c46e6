package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"slotswapper/internal/db"
	"slotswapper/internal/entities"
	"slotswapper/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. InTx
// runs fn against cloned maps and only swaps them in when fn succeeds, so a
// failed operation leaves the visible state untouched, matching the
// rollback behavior of the real store.
type fakeStore struct {
	users      map[uuid.UUID]*db.User
	slots      map[uuid.UUID]*db.Slot
	requests   map[uuid.UUID]*db.SwapRequest
	failCommit bool
}

var _ repository.SwapRepository = (*fakeStore)(nil)
var _ repository.SlotRepository = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*db.User),
		slots:    make(map[uuid.UUID]*db.Slot),
		requests: make(map[uuid.UUID]*db.SwapRequest),
	}
}

func (f *fakeStore) addUser(name, email string) uuid.UUID {
	id := uuid.New()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: time.Now()}
	return id
}

func (f *fakeStore) addSlot(ownerID uuid.UUID, title string, start time.Time, status string) uuid.UUID {
	id := uuid.New()
	f.slots[id] = &db.Slot{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return id
}

func (f *fakeStore) addRequest(requesterSlotID, targetSlotID uuid.UUID, status string, createdAt time.Time) uuid.UUID {
	id := uuid.New()
	f.requests[id] = &db.SwapRequest{
		ID:              id,
		RequesterSlotID: requesterSlotID,
		TargetSlotID:    targetSlotID,
		Status:          status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	return id
}

func cloneSlots(src map[uuid.UUID]*db.Slot) map[uuid.UUID]*db.Slot {
	dst := make(map[uuid.UUID]*db.Slot, len(src))
	for id, s := range src {
		copied := *s
		dst[id] = &copied
	}
	return dst
}

func cloneRequests(src map[uuid.UUID]*db.SwapRequest) map[uuid.UUID]*db.SwapRequest {
	dst := make(map[uuid.UUID]*db.SwapRequest, len(src))
	for id, r := range src {
		copied := *r
		dst[id] = &copied
	}
	return dst
}

// --- repository.SwapRepository ---

func (f *fakeStore) InTx(_ context.Context, fn func(tx repository.SwapTx) error) error {
	tx := &fakeTx{
		slots:    cloneSlots(f.slots),
		requests: cloneRequests(f.requests),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if f.failCommit {
		return errors.New("error committing transaction: connection reset")
	}
	f.slots = tx.slots
	f.requests = tx.requests
	return nil
}

func (f *fakeStore) ListRequestsTargetingOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error) {
	return f.listRequests(func(r *db.SwapRequest) bool {
		// Acceptance exchanged the owners, so the pre-swap target owner now
		// holds the requester slot.
		if r.Status == db.SwapStatusAccepted {
			return f.slots[r.RequesterSlotID].OwnerID == ownerID
		}
		return f.slots[r.TargetSlotID].OwnerID == ownerID
	}), nil
}

func (f *fakeStore) ListRequestsOfferedByOwner(ownerID uuid.UUID) ([]entities.SwapRequestDetail, error) {
	return f.listRequests(func(r *db.SwapRequest) bool {
		if r.Status == db.SwapStatusAccepted {
			return f.slots[r.TargetSlotID].OwnerID == ownerID
		}
		return f.slots[r.RequesterSlotID].OwnerID == ownerID
	}), nil
}

func (f *fakeStore) listRequests(match func(*db.SwapRequest) bool) []entities.SwapRequestDetail {
	var details []entities.SwapRequestDetail
	for _, r := range f.requests {
		if match(r) {
			details = append(details, *f.detail(r))
		}
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})
	return details
}

func (f *fakeStore) detail(req *db.SwapRequest) *entities.SwapRequestDetail {
	return swapDetail(req, f.slots[req.RequesterSlotID], f.slots[req.TargetSlotID])
}

// --- repository.SlotRepository ---

func (f *fakeStore) Create(slot *db.Slot) error {
	slot.ID = uuid.New()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	copied := *slot
	f.slots[slot.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(id uuid.UUID) (*db.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeStore) ListByOwner(ownerID uuid.UUID) ([]db.Slot, error) {
	var slots []db.Slot
	for _, s := range f.slots {
		if s.OwnerID == ownerID {
			slots = append(slots, *s)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots, nil
}

func (f *fakeStore) Update(slot *db.Slot) error {
	stored, ok := f.slots[slot.ID]
	if !ok {
		return errors.New("slot not found")
	}
	stored.Title = slot.Title
	stored.StartTime = slot.StartTime
	stored.EndTime = slot.EndTime
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) UpdateStatus(id uuid.UUID, status string) error {
	stored, ok := f.slots[id]
	if !ok {
		return errors.New("slot not found")
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) Delete(id uuid.UUID) error {
	delete(f.slots, id)
	return nil
}

func (f *fakeStore) ListSwappableExcludingOwner(ownerID uuid.UUID) ([]entities.MarketplaceSlot, error) {
	var listings []entities.MarketplaceSlot
	for _, s := range f.slots {
		if s.Status != db.SlotStatusSwappable || s.OwnerID == ownerID {
			continue
		}
		owner := f.users[s.OwnerID]
		listings = append(listings, entities.MarketplaceSlot{
			SlotResponse: slotResponse(s),
			Owner:        entities.OwnerDisplay{ID: owner.ID, Name: owner.Name, Email: owner.Email},
		})
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].StartTime.Before(listings[j].StartTime)
	})
	return listings, nil
}

// fakeTx is the transactional view over the cloned maps.
type fakeTx struct {
	slots    map[uuid.UUID]*db.Slot
	requests map[uuid.UUID]*db.SwapRequest
}

var _ repository.SwapTx = (*fakeTx)(nil)

func (t *fakeTx) GetSlotForUpdate(id uuid.UUID) (*db.Slot, error) {
	slot, ok := t.slots[id]
	if !ok {
		return nil, nil
	}
	return slot, nil
}

func (t *fakeTx) GetRequestForUpdate(id uuid.UUID) (*db.SwapRequest, error) {
	req, ok := t.requests[id]
	if !ok {
		return nil, nil
	}
	return req, nil
}

func (t *fakeTx) FindPendingRequestForPair(a, b uuid.UUID) (*db.SwapRequest, error) {
	for _, r := range t.requests {
		if r.Status != db.SwapStatusPending {
			continue
		}
		if (r.RequesterSlotID == a && r.TargetSlotID == b) ||
			(r.RequesterSlotID == b && r.TargetSlotID == a) {
			return r, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) CreateRequest(req *db.SwapRequest) error {
	// Mirror the partial unique index on pending pairs.
	existing, _ := t.FindPendingRequestForPair(req.RequesterSlotID, req.TargetSlotID)
	if existing != nil {
		return repository.ErrDuplicatePending
	}
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	copied := *req
	t.requests[req.ID] = &copied
	return nil
}

func (t *fakeTx) UpdateRequestStatus(id uuid.UUID, status string) error {
	req, ok := t.requests[id]
	if !ok {
		return errors.New("swap request not found")
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return nil
}

func (t *fakeTx) UpdateSlotStatus(id uuid.UUID, status string) error {
	slot, ok := t.slots[id]
	if !ok {
		return errors.New("slot not found")
	}
	slot.Status = status
	slot.UpdatedAt = time.Now()
	return nil
}

func (t *fakeTx) UpdateSlotOwnerAndStatus(id, ownerID uuid.UUID, status string) error {
	slot, ok := t.slots[id]
	if !ok {
		return errors.New("slot not found")
	}
	slot.OwnerID = ownerID
	slot.Status = status
	slot.UpdatedAt = time.Now()
	return nil
}
