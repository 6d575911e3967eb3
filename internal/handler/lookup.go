package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ordergrid/internal/service"
)

// LookupHandler proxies autocomplete queries to the item lookup service.
func LookupHandler(lookup *service.LookupClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			http.Error(w, "missing query", http.StatusBadRequest)
			return
		}

		items, err := lookup.Search(r.Context(), query)
		if err != nil {
			slog.Error("item lookup failed", "query", query, "error", err)
			http.Error(w, "item lookup failed", http.StatusBadGateway)
			return
		}

		if len(items) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
