package httpserver

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeInternal hides the underlying error from the client; callers log it.
func writeInternal(w http.ResponseWriter) {
	writeMessage(w, http.StatusInternalServerError, "internal error")
}
