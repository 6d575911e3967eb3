package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DirectoryService serves the supplier directory from Postgres and records
// save receipts for the back-office audit trail. Payment types and carrying
// bases are closed enumerations and live in the model package.
type DirectoryService struct {
	db *sql.DB
}

func NewDirectoryService(db *sql.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

type Supplier struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *DirectoryService) Suppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.Code, &sp.Name); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return suppliers, nil
}

// RecordSaveReceipt logs one save attempt and its outcome.
func (s *DirectoryService) RecordSaveReceipt(ctx context.Context, sessionID, userID string, rowCount int, outcome string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO save_receipts (session_id, user_id, row_count, outcome, saved_at) VALUES ($1, $2, $3, $4, $5)`,
		sessionID, userID, rowCount, outcome, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert save receipt: %w", err)
	}
	return nil
}
