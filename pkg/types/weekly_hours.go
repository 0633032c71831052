package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DayHours holds a single day's opening window as "HH:MM" strings.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklyHours maps lowercase day names ("monday".."sunday") to opening
// windows, persisted as JSONB. Any subset of days may be present; a missing
// day means the evaluator treats the store as open (fail-open policy).
type WeeklyHours map[string]DayHours

// Value marshals the map into JSON for Postgres.
func (h WeeklyHours) Value() (driver.Value, error) {
	if h == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the map. Unknown shapes scan to nil rather than
// erroring so a malformed hours blob never breaks a discovery read.
func (h *WeeklyHours) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("weekly hours: unsupported scan type %T", value)
	}

	result := make(WeeklyHours)
	if err := json.Unmarshal(raw, &result); err != nil {
		*h = nil
		return nil
	}
	*h = result
	return nil
}
