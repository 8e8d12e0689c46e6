package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"slotswapper/internal/auth"
	"slotswapper/internal/service"
)

type SwapHandler struct {
	Service *service.SwapService
}

func NewSwapHandler(svc *service.SwapService) *SwapHandler {
	return &SwapHandler{Service: svc}
}

func (h *SwapHandler) ListSwappableSlots(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	listings, err := h.Service.ListSwappableSlots(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *SwapHandler) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req SwapProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.MySlotID == uuid.Nil || req.TheirSlotID == uuid.Nil {
		http.Error(w, "Both my_slot_id and their_slot_id are required", http.StatusBadRequest)
		return
	}

	detail, err := h.Service.ProposeSwap(r.Context(), callerID, req.MySlotID, req.TheirSlotID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (h *SwapHandler) RespondToSwapRequest(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid request ID format", http.StatusBadRequest)
		return
	}
	var req SwapResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	detail, err := h.Service.RespondToSwap(r.Context(), callerID, requestID, req.Accepted)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *SwapHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lists, err := h.Service.ListMyRequests(callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}
