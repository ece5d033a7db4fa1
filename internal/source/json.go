package source

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pcdogyu/tradesession/internal/market"
)

// ParseJSONSlices parses the session column of a database export:
//
//	[{"Begin":"09:00:00","End":"10:15:00"},{"Begin":"21:00:00","End":"02:30:00"}]
//
// Key casing varies between exports, so keys match case-insensitively.
// Times are HH:MM:SS or HH:MM; seconds are dropped (minute granularity).
func ParseJSONSlices(data string) ([]market.SliceDef, error) {
	var arr []map[string]string
	if err := json.Unmarshal([]byte(data), &arr); err != nil {
		return nil, fmt.Errorf("session json: %w", err)
	}

	out := make([]market.SliceDef, 0, len(arr))
	for i, elem := range arr {
		begin, okB := lookupFold(elem, "begin")
		end, okE := lookupFold(elem, "end")
		if !okB || !okE {
			return nil, fmt.Errorf("session json: element %d misses Begin/End", i)
		}
		bh, bm, err := parseHM(begin)
		if err != nil {
			return nil, fmt.Errorf("session json: element %d: %w", i, err)
		}
		eh, em, err := parseHM(end)
		if err != nil {
			return nil, fmt.Errorf("session json: element %d: %w", i, err)
		}
		out = append(out, market.SliceDef{StartHour: bh, StartMinute: bm, EndHour: eh, EndMinute: em})
	}
	return out, nil
}

func lookupFold(m map[string]string, key string) (string, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func parseHM(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	return hour, minute, nil
}
