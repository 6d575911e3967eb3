package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordergrid/internal/grid"
	"ordergrid/internal/model"
	"ordergrid/internal/service"
)

func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errUnauthorized), errors.Is(err, service.ErrSessionNotFound):
		writeSessionError(w, err)
	case errors.Is(err, grid.ErrRowNotFound):
		http.Error(w, "row not found", http.StatusNotFound)
	case errors.Is(err, grid.ErrLastRow):
		http.Error(w, "the last remaining row cannot be deleted", http.StatusConflict)
	case errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrFieldNotWritable),
		errors.Is(err, model.ErrNegativeValue),
		errors.Is(err, model.ErrNotInEnum):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, grid.ErrEmptySelection), errors.Is(err, grid.ErrEmptyClipboard):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("grid command failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

type setCellRequest struct {
	RowID string `json:"rowId"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// SetCellHandler edits a single cell.
func SetCellHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req setCellRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := sess.SetField(req.RowID, req.Field, req.Value); err != nil {
			writeEditError(w, err)
			return
		}
		writeState(w, http.StatusOK, sess)
	}
}

type addRowRequest struct {
	AfterID string `json:"afterId"`
}

// AddRowHandler inserts a default row after the given row, or at the end.
func AddRowHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req addRowRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		if _, err := sess.AddRow(req.AfterID); err != nil {
			writeEditError(w, err)
			return
		}
		writeState(w, http.StatusCreated, sess)
	}
}

// DeleteRowHandler removes a row. The grid always keeps at least one row.
func DeleteRowHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		if err := sess.DeleteRow(chi.URLParam(r, "rowID")); err != nil {
			writeEditError(w, err)
			return
		}
		writeState(w, http.StatusOK, sess)
	}
}

type bulkUpdateRequest struct {
	Cells grid.Selection `json:"cells"`
	Field string         `json:"field"`
	Value string         `json:"value"`
}

// BulkUpdateHandler writes one value to the field of every selected row as
// a single history commit.
func BulkUpdateHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req bulkUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := sess.BulkUpdate(req.Cells, req.Field, req.Value); err != nil {
			writeEditError(w, err)
			return
		}
		writeState(w, http.StatusOK, sess)
	}
}
