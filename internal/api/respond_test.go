package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperr "slotswapper/internal/errors"
)

func TestWriteError_TaxonomyMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", apperr.NotFound("slot not found"), 404, "slot not found"},
		{"invalid state", apperr.InvalidState("slot is not swappable"), 409, "slot is not swappable"},
		{"invalid operation", apperr.InvalidOperation("cannot swap with yourself"), 400, "cannot swap with yourself"},
		{"conflict", apperr.Conflict("duplicate request"), 409, "duplicate request"},
		{"forbidden", apperr.Forbidden("only the target slot owner can respond"), 403, "only the target slot owner can respond"},
		{"internal hides cause", apperr.Internal("tx failed", errors.New("secret dsn")), 500, "internal server error"},
		{"plain error treated as internal", errors.New("secret detail"), 500, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body MessageResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, MessageResponse{Message: "ok"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	var body MessageResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "ok" {
		t.Errorf("message = %q, want ok", body.Message)
	}
}
