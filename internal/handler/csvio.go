package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ordergrid/internal/grid"
	"ordergrid/internal/service"
)

// maxImportSize bounds CSV uploads.
const maxImportSize = 4 << 20

// ExportCSVHandler renders the grid as a downloadable CSV file.
func ExportCSVHandler(store *service.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", grid.ExportFilename))
		_, _ = io.WriteString(w, sess.ExportCSV())
	}
}

// ImportCSVHandler replaces the grid wholesale with the parsed rows in one
// commit. Malformed lines are skipped; an input that yields no rows leaves
// the grid untouched and reports zero imported.
func ImportCSVHandler(store *service.SessionStore) http.HandlerFunc {
	type response struct {
		grid.State
		Imported int `json:"imported"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFrom(store, r)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
		if err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		imported, err := sess.ImportCSV(string(body))
		if err != nil && !errors.Is(err, grid.ErrNothingToImport) {
			writeEditError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response{State: sess.State(), Imported: imported}); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
