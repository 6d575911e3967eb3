package handler

import (
	"encoding/json"
	"net/http"

	"ordergrid/internal/grid"
	"ordergrid/internal/service"
	"ordergrid/internal/worker"
)

type estimateRequest struct {
	RowID string `json:"rowId"`
}

// EstimateHandler queues a price estimation for one row and returns
// immediately; the worker merges the completion later, unless the row was
// edited or deleted in the meantime.
func EstimateHandler(store *service.SessionStore, estimates *worker.EstimateWorker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req estimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ticket, err := sess.StampEstimate(req.RowID)
		if err != nil {
			writeEditError(w, err)
			return
		}

		if !estimates.Enqueue(ticket) {
			http.Error(w, "estimation queue is full, please retry", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

type applyItemRequest struct {
	RowID string             `json:"rowId"`
	Item  grid.ItemCandidate `json:"item"`
}

// ApplyItemHandler writes a lookup candidate's fields into the target row
// as a single commit.
func ApplyItemHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		var req applyItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := sess.ApplyItem(req.RowID, req.Item); err != nil {
			writeEditError(w, err)
			return
		}
		writeState(w, http.StatusOK, sess)
	}
}
