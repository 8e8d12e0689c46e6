package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperr "slotswapper/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps an error onto its HTTP status and a {"message": ...}
// payload. Internal causes are logged but never leaked to the caller.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		message = "internal server error"
	}
	writeJSON(w, status, MessageResponse{Message: message})
}
