package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		d, err := Parse("2025-05-10")
		require.NoError(t, err)
		assert.Equal(t, New(2025, time.May, 10), d)
	})

	t.Run("timestamp keeps its own calendar day", func(t *testing.T) {
		d, err := Parse("2025-05-10T23:30:00+07:00")
		require.NoError(t, err)
		assert.Equal(t, "2025-05-10", d.String())
	})

	t.Run("empty is zero", func(t *testing.T) {
		d, err := Parse("")
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := Parse("10/05/2025")
		assert.Error(t, err)
	})
}

func TestAddYears(t *testing.T) {
	assert.Equal(t, New(2024, time.April, 1), New(2020, time.April, 1).AddYears(4))
	assert.Equal(t, New(2026, time.March, 1), New(2024, time.February, 29).AddYears(2), "Feb 29 normalizes like time.Date")
	assert.True(t, Date{}.AddYears(2).IsZero())
}

func TestDaysUntil(t *testing.T) {
	today := New(2025, time.January, 31)
	assert.Equal(t, 0, today.DaysUntil(today))
	assert.Equal(t, 1, today.DaysUntil(New(2025, time.February, 1)))
	assert.Equal(t, -31, today.DaysUntil(New(2024, time.December, 31)))
	assert.Equal(t, 365, New(2023, time.March, 1).DaysUntil(New(2024, time.February, 29)))
}

func TestOfUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	instant := time.Date(2025, time.March, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-09", Of(instant).String())
	assert.Equal(t, "2025-03-10", Of(instant.In(jakarta)).String())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Due Date `json:"due"`
	}

	out, err := json.Marshal(payload{Due: New(2026, time.July, 1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2026-07-01"}`, string(out))

	out, err = json.Marshal(payload{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":null}`, string(out))

	var in payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2026-07-01"}`), &in))
	assert.Equal(t, New(2026, time.July, 1), in.Due)

	assert.Error(t, json.Unmarshal([]byte(`{"due":20260701}`), &in))
}

func TestScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-04-01", d.String())

	require.NoError(t, d.Scan([]byte("2023-12-31")))
	assert.Equal(t, New(2023, time.December, 31), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = New(2024, time.April, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", v)

	assert.Error(t, d.Scan(42))
}
