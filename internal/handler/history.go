package handler

import (
	"net/http"

	"ordergrid/internal/service"
)

// UndoHandler steps the session back one snapshot. At the oldest entry it
// is a saturating no-op; the current state is returned either way.
func UndoHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		sess.Undo()
		writeState(w, http.StatusOK, sess)
	}
}

// RedoHandler steps the session forward one snapshot, a no-op at the tip.
func RedoHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		sess.Redo()
		writeState(w, http.StatusOK, sess)
	}
}
