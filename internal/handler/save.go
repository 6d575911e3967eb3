package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"ordergrid/internal/service"
)

// ReceiptRecorder logs save attempts for the back-office audit trail.
// *service.DirectoryService implements it.
type ReceiptRecorder interface {
	RecordSaveReceipt(ctx context.Context, sessionID, userID string, rowCount int, outcome string) error
}

// SaveHandler validates every row, then hands the full ordered collection
// to the external save endpoint. Validation problems block the save with a
// per-row report; a failed save leaves grid and history untouched and is
// retried by saving again.
func SaveHandler(store *service.SessionStore, saver *service.SaveClient, receipts ReceiptRecorder) http.HandlerFunc {
	type response struct {
		SavedRows int `json:"savedRows"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFrom(r)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		rows := sess.Rows()
		if issues := rows.Validate(); len(issues) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{"issues": issues})
			return
		}

		if err := saver.Save(r.Context(), sess.ID, rows); err != nil {
			slog.Error("order save failed", "session", sess.ID, "error", err)
			if rerr := receipts.RecordSaveReceipt(r.Context(), sess.ID, userID, len(rows), "failed"); rerr != nil {
				slog.Error("save receipt failed", "session", sess.ID, "error", rerr)
			}
			http.Error(w, "order save failed, please retry", http.StatusBadGateway)
			return
		}

		if err := receipts.RecordSaveReceipt(r.Context(), sess.ID, userID, len(rows), "saved"); err != nil {
			slog.Error("save receipt failed", "session", sess.ID, "error", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response{SavedRows: len(rows)}); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
