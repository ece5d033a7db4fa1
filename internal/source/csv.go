// Package source implements the loader collaborators that feed
// market.SessionMgr: delimited files, database exports, SQLite tables and
// preset assignments. Each source delivers plain (symbol, slice-definitions)
// records; all validation happens in the core during reload.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pcdogyu/tradesession/internal/market"
)

// SliceCSV reads the tabular session layout: one row per slice with columns
// symbol,start_hour,start_minute,end_hour,end_minute, rows grouped by
// symbol. A header row is skipped when the second column is not numeric.
type SliceCSV struct {
	Path string
}

func (s SliceCSV) Records() ([]market.Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSliceRows(f)
}

func readSliceRows(r io.Reader) ([]market.Record, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = 5
	rd.TrimLeadingSpace = true

	var (
		out   []market.Record
		index = map[string]int{}
	)
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
		if line == 1 && !numeric(row[1]) {
			continue
		}

		symbol := row[0]
		def, err := parseSliceRow(row[1:])
		if err != nil {
			return nil, fmt.Errorf("row %d (symbol %q): %w", line, symbol, err)
		}

		i, ok := index[symbol]
		if !ok {
			i = len(out)
			index[symbol] = i
			out = append(out, market.Record{Symbol: symbol})
		}
		out[i].Slices = append(out[i].Slices, def)
	}
	return out, nil
}

func parseSliceRow(cols []string) (market.SliceDef, error) {
	var v [4]int
	for i, c := range cols {
		n, err := strconv.Atoi(c)
		if err != nil {
			return market.SliceDef{}, fmt.Errorf("bad time component %q", c)
		}
		v[i] = n
	}
	return market.SliceDef{StartHour: v[0], StartMinute: v[1], EndHour: v[2], EndMinute: v[3]}, nil
}

func numeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
