package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pcdogyu/tradesession/internal/market"
)

// DBExportCSV reads a session table exported from a database. Two-column
// rows are symbol,sessions-json; three-column rows are
// symbol,exchange,sessions-json. The json column carries commas, so exports
// quote it:
//
//	ag,SHFE,"[{""Begin"":""09:00:00"",""End"":""10:15:00""},...]"
//
// The first row is treated as a header.
type DBExportCSV struct {
	Path string
}

// ExportRow is one raw row of a database export, json column unparsed.
type ExportRow struct {
	Symbol   string
	Exchange string
	Sessions string
}

func (s DBExportCSV) Records() ([]market.Record, error) {
	rows, err := ReadExportFile(s.Path)
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

func ReadExportFile(path string) ([]ExportRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readExportRows(f)
}

func readExportRows(r io.Reader) ([]ExportRow, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	var out []ExportRow
	line := 0
	for {
		row, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			continue
		}

		switch len(row) {
		case 2:
			out = append(out, ExportRow{Symbol: row[0], Sessions: row[1]})
		case 3:
			out = append(out, ExportRow{Symbol: row[0], Exchange: row[1], Sessions: row[2]})
		default:
			return nil, fmt.Errorf("row %d: expected 2 or 3 fields, got %d", line, len(row))
		}
	}
	return out, nil
}
