package market

import (
	"fmt"
	"sort"
)

// Preset slice tables per CN exchange rules. This is data, not logic: keep
// the rows aligned with the exchange notices instead of deriving them.
var presetTables = map[string][]SliceDef{
	// SSE/SZSE stocks.
	"stock": {
		{9, 30, 11, 30},
		{13, 0, 15, 0},
	},
	// CFFEX index futures trade stock hours since 2016.
	"stock_index": {
		{9, 30, 11, 30},
		{13, 0, 15, 0},
	},
	// CFFEX bond futures keep the extra 15 minutes after the stock close.
	"bond": {
		{9, 30, 11, 30},
		{13, 0, 15, 15},
	},
	// Commodity futures, day trading only.
	"commodity": {
		{9, 0, 10, 15},
		{10, 30, 11, 30},
		{13, 30, 15, 0},
	},
	// Commodity futures with the 21:00~02:30 night session.
	"commodity_night": {
		{21, 0, 2, 30},
		{9, 0, 10, 15},
		{10, 30, 11, 30},
		{13, 30, 15, 0},
	},
	// Union of stock, bond and commodity-night hours.
	"full": {
		{21, 0, 2, 30},
		{9, 0, 11, 30},
		{13, 0, 15, 15},
	},
}

// PresetNames lists the available preset calendars, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presetTables))
	for name := range presetTables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetSlices returns the raw slice table of a named preset.
func PresetSlices(name string) ([]SliceDef, error) {
	defs, ok := presetTables[name]
	if !ok {
		return nil, fmt.Errorf("unknown session preset %q", name)
	}
	return append([]SliceDef(nil), defs...), nil
}

// PresetSession builds the session for a named preset.
func PresetSession(name string) (*TradeSession, error) {
	defs, err := PresetSlices(name)
	if err != nil {
		return nil, err
	}
	s := NewTradeSession()
	for _, d := range defs {
		if err := s.AddSlice(d.StartHour, d.StartMinute, d.EndHour, d.EndMinute); err != nil {
			return nil, err
		}
	}
	if err := s.PostFix(); err != nil {
		return nil, err
	}
	return s, nil
}

func mustPreset(name string) *TradeSession {
	s, err := PresetSession(name)
	if err != nil {
		panic(err)
	}
	return s
}

// NewStockSession is the SSE/SZSE stock calendar.
func NewStockSession() *TradeSession { return mustPreset("stock") }

// NewStockIndexSession is the CFFEX index-futures calendar.
func NewStockIndexSession() *TradeSession { return mustPreset("stock_index") }

// NewBondSession is the CFFEX bond-futures calendar.
func NewBondSession() *TradeSession { return mustPreset("bond") }

// NewCommoditySession is the day-only commodity-futures calendar.
func NewCommoditySession() *TradeSession { return mustPreset("commodity") }

// NewCommoditySessionNight is the commodity-futures calendar with the night
// session.
func NewCommoditySessionNight() *TradeSession { return mustPreset("commodity_night") }

// NewFullSession covers all instrument classes, night session included.
func NewFullSession() *TradeSession { return mustPreset("full") }
