package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.March, 5)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-05"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-05"`), &parsed))
	assert.Equal(t, d.Time, parsed.Time)

	// ISO timestamps are truncated to the date part
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-05T10:30:00Z"`), &parsed))
	assert.Equal(t, "2026-03-05", parsed.String())

	assert.Error(t, json.Unmarshal([]byte(`"05/03/2026"`), &parsed))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-01-15 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", d.String())

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDaysUntil(t *testing.T) {
	from := NewDate(2026, time.January, 1)
	to := NewDate(2026, time.January, 11)
	assert.Equal(t, 10, from.DaysUntil(to))
	assert.Equal(t, -10, to.DaysUntil(from))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 5, 1, 23, 59, 0, 0, time.FixedZone("X", 3600))))
	assert.Equal(t, "2026-05-01", d.String())

	require.NoError(t, d.Scan("2026-06-02"))
	assert.Equal(t, "2026-06-02", d.String())

	assert.Error(t, d.Scan(42))
}
