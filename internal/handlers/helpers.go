// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"todochat-backend/internal/middleware"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// authorizedUser checks that the user in the URL path is the authenticated
// user. A mismatch is reported to the client and "" is returned.
func authorizedUser(w http.ResponseWriter, r *http.Request) string {
	authUserID := middleware.UserIDFromContext(r.Context())
	if authUserID == "" {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return ""
	}
	if pathUserID := mux.Vars(r)["user_id"]; pathUserID != authUserID {
		writeError(w, "Access denied", http.StatusForbidden)
		return ""
	}
	return authUserID
}

// pathTaskID parses the {id} path variable. Routes constrain it to digits, so
// a parse failure means the value overflows.
func pathTaskID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid task ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
