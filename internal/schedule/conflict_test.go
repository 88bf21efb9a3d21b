package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchut-miluim/mentoring-api/internal/models"
)

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9am", 0, true},
		{"", 0, true},
		// Unpadded clocks would break the lexicographic comparison the
		// database overlap check relies on.
		{"9:30", 0, true},
		{"09:5", 0, true},
		{"+9:30", 0, true},
		{" 9:30", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.clock)
		if tc.wantErr {
			assert.Error(t, err, tc.clock)
			continue
		}
		require.NoError(t, err, tc.clock)
		assert.Equal(t, tc.minutes, got, tc.clock)
	}
}

func TestNewIntervalRejectsInvertedRange(t *testing.T) {
	_, err := NewInterval("10:00", "10:00")
	require.Error(t, err)

	_, err = NewInterval("11:00", "10:00")
	require.Error(t, err)
}

func TestOverlapsHalfOpenBoundary(t *testing.T) {
	nine := mustInterval(t, "09:00", "10:00")
	ten := mustInterval(t, "10:00", "11:00")
	half := mustInterval(t, "09:30", "10:30")

	assert.False(t, Overlaps(nine, ten), "touching endpoints must not overlap")
	assert.True(t, Overlaps(nine, half))
	assert.True(t, Overlaps(half, ten))
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][2]Interval{
		{mustInterval(t, "09:00", "10:00"), mustInterval(t, "09:30", "10:30")},
		{mustInterval(t, "09:00", "10:00"), mustInterval(t, "10:00", "11:00")},
		{mustInterval(t, "08:00", "12:00"), mustInterval(t, "09:00", "10:00")},
		{mustInterval(t, "09:00", "09:15"), mustInterval(t, "14:00", "15:00")},
	}
	for _, p := range pairs {
		assert.Equal(t, Overlaps(p[0], p[1]), Overlaps(p[1], p[0]))
	}
}

func TestIntervalDuration(t *testing.T) {
	assert.InDelta(t, 1.5, mustInterval(t, "09:00", "10:30").Duration(), 1e-9)
	assert.InDelta(t, 0.25, mustInterval(t, "12:00", "12:15").Duration(), 1e-9)
}

func TestFindConflict(t *testing.T) {
	sessions := []models.Session{
		{ID: "s1", Date: "2025-01-10", StartTime: "09:00", EndTime: "10:00", Status: models.SessionStatusApproved},
		{ID: "s2", Date: "2025-01-10", StartTime: "13:00", EndTime: "14:00", Status: models.SessionStatusDeclined},
		{ID: "s3", Date: "2025-01-11", StartTime: "09:00", EndTime: "10:00", Status: models.SessionStatusPending},
	}

	conflict := FindConflict("2025-01-10", mustInterval(t, "09:30", "10:30"), sessions)
	require.NotNil(t, conflict)
	assert.Equal(t, "s1", conflict.ID)

	assert.Nil(t, FindConflict("2025-01-10", mustInterval(t, "10:00", "11:00"), sessions), "touching boundary is free")
	assert.Nil(t, FindConflict("2025-01-10", mustInterval(t, "13:00", "14:00"), sessions), "declined sessions do not hold the slot")
	assert.Nil(t, FindConflict("2025-01-12", mustInterval(t, "09:00", "10:00"), sessions))
}

func TestWithinWindow(t *testing.T) {
	slot := models.MentorSlot{Day: models.Monday, StartTime: "09:00", EndTime: "12:00"}

	ok, err := WithinWindow(mustInterval(t, "09:00", "12:00"), slot)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = WithinWindow(mustInterval(t, "10:00", "11:00"), slot)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = WithinWindow(mustInterval(t, "08:30", "10:00"), slot)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = WithinWindow(mustInterval(t, "11:00", "12:30"), slot)
	require.NoError(t, err)
	assert.False(t, ok)
}
