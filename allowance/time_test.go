package allowance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/allowance-engine/allowance"
)

func TestDaysBetween(t *testing.T) {
	jan1 := allowance.NewTimePoint(2025, time.January, 1)

	assert.Equal(t, 0, allowance.DaysBetween(jan1, jan1))
	assert.Equal(t, 1, allowance.DaysBetween(jan1, jan1.AddDays(1)))
	assert.Equal(t, 364, allowance.DaysBetween(jan1, allowance.EndOfYear(2025)))
	assert.Equal(t, -31, allowance.DaysBetween(jan1, allowance.NewTimePoint(2024, time.December, 1)))
}

func TestTimePointOf_NormalizesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2025, time.March, 10, 2, 30, 0, 0, loc) // Mar 9, 21:30 UTC

	tp := allowance.TimePointOf(at)

	assert.True(t, tp.Equal(allowance.NewTimePoint(2025, time.March, 9)))
}

func TestParseTimePoint(t *testing.T) {
	tp, err := allowance.ParseTimePoint("2025-07-01")
	require.NoError(t, err)
	assert.True(t, tp.Equal(allowance.NewTimePoint(2025, time.July, 1)))

	_, err = allowance.ParseTimePoint("July 1st")
	assert.Error(t, err)
}
