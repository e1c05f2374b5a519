package sqlite

import (
	"fmt"
	"time"
)

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// timeText scans a TEXT timestamp written by formatTime.
type timeText struct {
	t *time.Time
}

func (s timeText) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*s.t = v.UTC()
		return nil
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
	parsed, err := time.Parse(timeFormat, raw)
	if err != nil {
		return fmt.Errorf("parse time %q: %w", raw, err)
	}
	*s.t = parsed
	return nil
}

// nullTimeText scans a nullable TEXT timestamp.
type nullTimeText struct {
	t **time.Time
}

func (s nullTimeText) Scan(src any) error {
	if src == nil {
		*s.t = nil
		return nil
	}
	var parsed time.Time
	if err := (timeText{t: &parsed}).Scan(src); err != nil {
		return err
	}
	*s.t = &parsed
	return nil
}
