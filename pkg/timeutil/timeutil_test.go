package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToTimePassthrough(t *testing.T) {
	instant := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, instant, ToTime(instant))
	assert.Equal(t, instant, ToTime(&instant))
}

func TestToTimeRFC3339String(t *testing.T) {
	parsed := ToTime("2024-03-15T10:30:00Z")
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), parsed.UTC())

	withNanos := ToTime("2024-03-15T10:30:00.5Z")
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 500000000, time.UTC), withNanos.UTC())
}

func TestToTimeEpochMillis(t *testing.T) {
	assert.Equal(t, time.UnixMilli(0), ToTime(int64(0)))
	assert.Equal(t, time.UnixMilli(1710498600000), ToTime(1710498600000))
	assert.Equal(t, time.UnixMilli(1710498600000), ToTime(float64(1710498600000)))
}

func TestToTimeFallsBackToNow(t *testing.T) {
	for _, v := range []interface{}{nil, "not a date", struct{}{}, (*time.Time)(nil)} {
		before := time.Now()
		got := ToTime(v)
		after := time.Now()
		assert.False(t, got.Before(before), "value %v should fall back to now", v)
		assert.False(t, got.After(after), "value %v should fall back to now", v)
	}
}

type fakeTimestamp struct{ t time.Time }

func (f fakeTimestamp) AsTime() time.Time { return f.t }

func TestToTimeAsTimeCapable(t *testing.T) {
	instant := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, instant, ToTime(fakeTimestamp{t: instant}))
}
