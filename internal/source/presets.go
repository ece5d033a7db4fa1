package source

import (
	"fmt"
	"sort"

	"github.com/pcdogyu/tradesession/internal/market"
)

// Presets turns a symbol-to-preset-name assignment (usually from config)
// into loader records. Symbols are emitted in sorted order so reload
// diagnostics are stable.
type Presets struct {
	Assign map[string]string
}

func (s Presets) Records() ([]market.Record, error) {
	symbols := make([]string, 0, len(s.Assign))
	for sym := range s.Assign {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	out := make([]market.Record, 0, len(symbols))
	for _, sym := range symbols {
		defs, err := market.PresetSlices(s.Assign[sym])
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", sym, err)
		}
		out = append(out, market.Record{Symbol: sym, Slices: defs})
	}
	return out, nil
}
