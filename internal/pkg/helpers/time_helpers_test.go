package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 09-01-2024 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "09-01-2024", FormatDate(d))

	_, err = ParseDate("2024-09-01")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("8:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(8, 30), c)

	c, err = ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(8, 30), c)
	assert.Equal(t, "08:30", FormatClock(c))

	_, err = ParseClock("24:00")
	assert.Error(t, err)
}
