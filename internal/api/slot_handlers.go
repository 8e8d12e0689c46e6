package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"slotswapper/internal/auth"
	"slotswapper/internal/db"
	"slotswapper/internal/service"
)

type SlotHandler struct {
	Service *service.SlotService
}

func NewSlotHandler(svc *service.SlotService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

// callerAndSlotID pulls the authenticated caller and the {id} path variable;
// it writes the error response itself when either is unusable.
func callerAndSlotID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	slotID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid slot ID format", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, slotID, true
}

func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	slots, err := h.Service.ListMySlots(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []db.Slot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *SlotHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	callerID, slotID, ok := callerAndSlotID(w, r)
	if !ok {
		return
	}
	slot, err := h.Service.GetSlot(callerID, slotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.Service.CreateSlot(callerID, req.Title, req.StartTime, req.EndTime, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (h *SlotHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	callerID, slotID, ok := callerAndSlotID(w, r)
	if !ok {
		return
	}
	var req UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.Service.UpdateSlot(callerID, slotID, req.Title, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *SlotHandler) UpdateSlotStatus(w http.ResponseWriter, r *http.Request) {
	callerID, slotID, ok := callerAndSlotID(w, r)
	if !ok {
		return
	}
	var req UpdateSlotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slot, err := h.Service.SetSlotStatus(callerID, slotID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

func (h *SlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	callerID, slotID, ok := callerAndSlotID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteSlot(callerID, slotID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Slot deleted successfully"})
}
