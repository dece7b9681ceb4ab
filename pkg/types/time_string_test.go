package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	_, err = NewTimeStringFromString("9:30")
	assert.Error(t, err)

	_, err = NewTimeStringFromString("25:00")
	assert.Error(t, err)

	_, err = NewTimeStringFromString("")
	assert.Error(t, err)
}

func TestTimeStringValidateCanonicalForm(t *testing.T) {
	assert.NoError(t, TimeString("09:30").Validate())

	// Лексикографический порядок требует ведущих нулей
	assert.Error(t, TimeString("9:30").Validate())
	assert.Error(t, TimeString("09:3").Validate())
}

func TestTimeStringComparison(t *testing.T) {
	early, err := NewTimeStringFromString("10:00")
	require.NoError(t, err)
	late, err := NewTimeStringFromString("12:30")
	require.NoError(t, err)

	assert.True(t, early.IsBefore(late))
	assert.False(t, late.IsBefore(early))
	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(early))
}

func TestTimeStringMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("10:45")
	require.NoError(t, err)

	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 10*60+45, minutes)
}

func TestTimeStringAddMinutes(t *testing.T) {
	ts, err := NewTimeStringFromString("22:00")
	require.NoError(t, err)

	result, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, "23:30", result.String())

	// За полночь не переходим
	_, err = ts.AddMinutes(180)
	assert.Error(t, err)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как "HH:MM:SS"
	require.NoError(t, ts.Scan("12:15:00"))
	assert.Equal(t, "12:15", ts.String())

	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, "08:00", ts.String())

	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, "18:45", ts.String())

	assert.Error(t, ts.Scan(42))
}

func TestTimeStringValue(t *testing.T) {
	ts, err := NewTimeStringFromString("14:00")
	require.NoError(t, err)

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Equal(t, "14:00", v)
}
