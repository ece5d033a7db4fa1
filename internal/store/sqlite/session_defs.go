package sqlite

import (
	"database/sql"
	"time"
)

type SessionDefRow struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	Sessions string `json:"sessions"`
}

func UpsertSessionDef(db *sql.DB, symbol, exchange, sessionsJSON string, tsUTC time.Time) error {
	_, err := db.Exec(`
		INSERT INTO session_defs(symbol, exchange, sessions, updated_utc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			exchange=excluded.exchange,
			sessions=excluded.sessions,
			updated_utc=excluded.updated_utc
	`, symbol, exchange, sessionsJSON, tsUTC.UTC().Format(time.RFC3339))
	return err
}

func QuerySessionDefs(db *sql.DB) ([]SessionDefRow, error) {
	rows, err := db.Query(`
		SELECT symbol, COALESCE(exchange, ''), sessions
		FROM session_defs
		ORDER BY symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionDefRow
	for rows.Next() {
		var r SessionDefRow
		if err := rows.Scan(&r.Symbol, &r.Exchange, &r.Sessions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
