package source

import (
	"database/sql"
	"fmt"

	"github.com/pcdogyu/tradesession/internal/market"
	"github.com/pcdogyu/tradesession/internal/store/sqlite"
)

// SQLite reads session definitions from the session_defs table, the same
// symbol-plus-JSON shape as DBExportCSV but straight from the database.
type SQLite struct {
	DB *sql.DB
}

func (s SQLite) Records() ([]market.Record, error) {
	rows, err := sqlite.QuerySessionDefs(s.DB)
	if err != nil {
		return nil, err
	}

	out := make([]market.Record, 0, len(rows))
	for _, r := range rows {
		defs, err := ParseJSONSlices(r.Sessions)
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", r.Symbol, err)
		}
		out = append(out, market.Record{Symbol: r.Symbol, Slices: defs})
	}
	return out, nil
}
