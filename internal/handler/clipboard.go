package handler

import (
	"encoding/json"
	"net/http"

	"ordergrid/internal/grid"
	"ordergrid/internal/service"
)

type selectRequest struct {
	Cells grid.Selection `json:"cells"`
}

// SelectHandler replaces the session's selection. Selecting never commits.
func SelectHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req selectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess.Select(req.Cells)
		writeState(w, http.StatusOK, sess)
	}
}

// CopyHandler captures the selection into the clipboard. An empty selection
// is a quiet no-op, mirrored by the frontend keeping the button disabled.
func CopyHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		if !sess.Copy() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeState(w, http.StatusOK, sess)
	}
}

// PasteHandler applies the clipboard onto the selection as one commit.
func PasteHandler(store *service.SessionStore) http.HandlerFunc {
	type response struct {
		grid.State
		Applied int `json:"applied"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		applied, err := sess.Paste()
		if err != nil {
			writeEditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response{State: sess.State(), Applied: applied}); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
