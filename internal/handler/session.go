package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordergrid/internal/grid"
	"ordergrid/internal/model"
	"ordergrid/internal/mw"
	"ordergrid/internal/service"
)

var errUnauthorized = errors.New("unauthorized")

func userIDFrom(r *http.Request) (string, error) {
	userID, ok := r.Context().Value(mw.UserCtxKey).(string)
	if !ok || userID == "" {
		return "", errUnauthorized
	}
	return userID, nil
}

func sessionFrom(store *service.SessionStore, r *http.Request) (*grid.Session, error) {
	userID, err := userIDFrom(r)
	if err != nil {
		return nil, err
	}
	return store.Get(chi.URLParam(r, "sessionID"), userID)
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, service.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeState(w http.ResponseWriter, status int, s *grid.Session) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(s.State()); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

// CreateSessionHandler starts a new grid session holding one default row.
func CreateSessionHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID, err := userIDFrom(r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		sess := store.Create(userID)
		writeState(w, http.StatusCreated, sess)
	}
}

// GetSessionHandler returns the renderable grid state plus the column set.
func GetSessionHandler(store *service.SessionStore) http.HandlerFunc {
	type response struct {
		grid.State
		Columns []columnInfo `json:"columns"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response{State: sess.State(), Columns: columnInfos()}); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

type columnInfo struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
	Writable bool     `json:"writable"`
}

func columnInfos() []columnInfo {
	out := make([]columnInfo, len(model.Columns))
	for i, c := range model.Columns {
		out[i] = columnInfo{Key: c.Key, Label: c.Label, Options: c.Options, Writable: c.Writable}
	}
	return out
}
