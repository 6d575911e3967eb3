package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"ordergrid/internal/model"
	"ordergrid/internal/service"
)

// SuppliersHandler lists the supplier directory.
func SuppliersHandler(directory *service.DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := directory.Suppliers(r.Context())
		if err != nil {
			slog.Error("supplier directory failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(suppliers); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

// PaymentTypesHandler lists the closed payment-type enumeration.
func PaymentTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(model.PaymentTypes); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}

// CarryingBasesHandler lists the closed carrying-basis enumeration.
func CarryingBasesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(model.CarryingBases); err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
		}
	}
}
