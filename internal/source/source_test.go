package source

import (
	"strings"
	"testing"
)

func TestReadSliceRows(t *testing.T) {
	csv := `symbol,start_hour,start_minute,end_hour,end_minute
ru,21,0,23,0
ru,9,0,10,15
IF,9,30,11,30
ru,10,30,11,30
`
	records, err := readSliceRows(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Symbol != "ru" || len(records[0].Slices) != 3 {
		t.Fatalf("ru record wrong: %+v", records[0])
	}
	if records[1].Symbol != "IF" || len(records[1].Slices) != 1 {
		t.Fatalf("IF record wrong: %+v", records[1])
	}
	first := records[0].Slices[0]
	if first.StartHour != 21 || first.StartMinute != 0 || first.EndHour != 23 || first.EndMinute != 0 {
		t.Fatalf("first ru slice wrong: %+v", first)
	}
}

func TestReadSliceRowsNoHeader(t *testing.T) {
	records, err := readSliceRows(strings.NewReader("ag,9,0,10,15\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || len(records[0].Slices) != 1 {
		t.Fatalf("headerless file misread: %+v", records)
	}
}

func TestReadSliceRowsBadComponent(t *testing.T) {
	_, err := readSliceRows(strings.NewReader("ag,9,xx,10,15\n"))
	if err == nil {
		t.Fatalf("expected error for non-numeric component")
	}
}

func TestParseJSONSlices(t *testing.T) {
	data := `[{"Begin":"09:00:00","End":"10:15:00"},{"begin":"21:00","END":"02:30"}]`
	defs, err := ParseJSONSlices(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d defs, want 2", len(defs))
	}
	if defs[0].StartHour != 9 || defs[0].EndHour != 10 || defs[0].EndMinute != 15 {
		t.Fatalf("first def wrong: %+v", defs[0])
	}
	if defs[1].StartHour != 21 || defs[1].EndHour != 2 || defs[1].EndMinute != 30 {
		t.Fatalf("night def wrong: %+v", defs[1])
	}
}

func TestParseJSONSlicesErrors(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`[{"Begin":"09:00:00"}]`,
		`[{"Begin":"9am","End":"10:00:00"}]`,
	} {
		if _, err := ParseJSONSlices(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestReadExportRows(t *testing.T) {
	csv := `product,exchange,sessions
ag,SHFE,"[{""Begin"":""09:00:00"",""End"":""10:15:00""},{""Begin"":""21:00:00"",""End"":""02:30:00""}]"
IF,"[{""Begin"":""09:30:00"",""End"":""11:30:00""}]"
`
	rows, err := readExportRows(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Symbol != "ag" || rows[0].Exchange != "SHFE" {
		t.Fatalf("ag row wrong: %+v", rows[0])
	}
	if rows[1].Symbol != "IF" || rows[1].Exchange != "" {
		t.Fatalf("two-column row wrong: %+v", rows[1])
	}

	defs, err := ParseJSONSlices(rows[0].Sessions)
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 {
		t.Fatalf("ag sessions parse wrong: %+v", defs)
	}
}

func TestReadExportRowsBadWidth(t *testing.T) {
	csv := "product,exchange,sessions\na,b,c,d\n"
	if _, err := readExportRows(strings.NewReader(csv)); err == nil {
		t.Fatalf("expected error for 4-column row")
	}
}

func TestPresetsSource(t *testing.T) {
	src := Presets{Assign: map[string]string{
		"ru":     "commodity_night",
		"IF":     "stock_index",
		"600519": "stock",
	}}
	records, err := src.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Sorted by symbol for stable diagnostics.
	if records[0].Symbol != "600519" || records[1].Symbol != "IF" || records[2].Symbol != "ru" {
		t.Fatalf("records out of order: %+v", records)
	}
	if len(records[2].Slices) != 4 {
		t.Fatalf("commodity_night should have 4 slices, got %d", len(records[2].Slices))
	}

	bad := Presets{Assign: map[string]string{"x": "nope"}}
	if _, err := bad.Records(); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
}
