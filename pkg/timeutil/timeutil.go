// Package timeutil normalizes the timestamp representations found in
// persisted documents. Records written by older clients carry RFC3339
// strings or epoch milliseconds instead of native timestamps; rather
// than reject those documents, decoding falls back to the current
// instant so a malformed date never breaks a listing.
package timeutil

import (
	"encoding/json"
	"time"
)

// asTimer covers protobuf-style timestamp values surfaced by raw
// document data.
type asTimer interface {
	AsTime() time.Time
}

// ToTime converts a raw document field to a time.Time. Priority:
// native time values, AsTime-capable values, RFC3339 strings, numeric
// epoch milliseconds. Anything else, including nil, yields time.Now().
func ToTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case asTimer:
		return t.AsTime()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case int64:
		return time.UnixMilli(t)
	case int:
		return time.UnixMilli(int64(t))
	case float64:
		return time.UnixMilli(int64(t))
	case json.Number:
		if ms, err := t.Int64(); err == nil {
			return time.UnixMilli(ms)
		}
	}
	return time.Now()
}
