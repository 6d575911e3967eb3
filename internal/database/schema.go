package database

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS suppliers (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS save_receipts (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    row_count INT NOT NULL,
    outcome TEXT NOT NULL,
    saved_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_save_receipts_user_id ON save_receipts(user_id);

INSERT INTO suppliers (code, name) VALUES
    ('SUP-001', 'Shenzhen Hardware Co.'),
    ('SUP-002', 'Ningbo Plastics Ltd.'),
    ('SUP-003', 'Guangzhou Textiles Group'),
    ('SUP-004', 'Istanbul Metalworks'),
    ('SUP-005', 'Ho Chi Minh Furniture JSC')
ON CONFLICT (code) DO NOTHING;
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
