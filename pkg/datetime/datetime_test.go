package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func TestAddOffset(t *testing.T) {
	loc := berlin(t)

	summer, err := AddOffset("2024-05-01T10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00+02:00", summer)

	winter, err := AddOffset("2024-01-15T08:30", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T08:30+01:00", winter)
}

func TestRemoveOffset(t *testing.T) {
	loc := berlin(t)

	naive, err := RemoveOffset("2024-05-01T08:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00", naive)

	naive, err = RemoveOffset("2024-05-01T10:00", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00", naive)
}

func TestOffsetRoundTrip(t *testing.T) {
	loc := berlin(t)

	for _, value := range []string{
		"2024-01-01T00:00",
		"2024-03-30T23:59",
		"2024-07-14T12:15",
		"2024-10-27T01:30",
		"2024-12-31T23:45",
	} {
		t.Run(value, func(t *testing.T) {
			zoned, err := AddOffset(value, loc)
			require.NoError(t, err)

			back, err := RemoveOffset(zoned, loc)
			require.NoError(t, err)
			assert.Equal(t, value, back)
		})
	}

	t.Run("skipped by daylight saving", func(t *testing.T) {
		_, err := AddOffset("2024-03-31T02:30", loc)
		assert.ErrorIs(t, err, ErrSkippedWallClock)

		zoned, err := AddOffset("2024-03-31T03:30", loc)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-31T03:30+02:00", zoned)
	})
}

func TestFormatting(t *testing.T) {
	loc := berlin(t)
	instant := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "01.05.2024 um 10:00", FormatDate(instant, 0, loc))
	assert.Equal(t, "01.05.2024 um 11:00", FormatDate(instant, 60, loc))
	assert.Equal(t, "2024-05-01T10:00", DateTimeISO(instant, 0, loc))
	assert.Equal(t, "2024-05-02", DateISO(instant, 16*60, loc))
	assert.Equal(t, "10:00:00", TimeString(instant, loc))
	assert.Equal(t, "2024-05-01T10:00+02:00", WithTimeZone(instant, loc))
}

func TestIsBefore(t *testing.T) {
	loc := berlin(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, loc)

	assert.True(t, IsBefore("2024-05-01T09:59", loc, now))
	assert.False(t, IsBefore("2024-05-01T10:00", loc, now))
	assert.False(t, IsBefore("garbage", loc, now))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("", time.UTC)
	assert.Error(t, err)

	_, err = Parse("01.05.2024", time.UTC)
	assert.Error(t, err)
}
