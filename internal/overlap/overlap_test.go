package overlap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(t *testing.T, start, end string) Interval {
	t.Helper()
	in, err := FromSlot("2024-05-01", start, end)
	require.NoError(t, err)
	return in
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		want bool
	}{
		{"adjacent intervals do not overlap", [2]string{"10:00", "11:00"}, [2]string{"11:00", "12:00"}, false},
		{"adjacent reversed", [2]string{"11:00", "12:00"}, [2]string{"10:00", "11:00"}, false},
		{"identical intervals overlap", [2]string{"10:00", "11:00"}, [2]string{"10:00", "11:00"}, true},
		{"a contains b", [2]string{"10:00", "12:00"}, [2]string{"11:00", "11:30"}, true},
		{"b contains a", [2]string{"11:00", "11:30"}, [2]string{"10:00", "12:00"}, true},
		{"partial overlap at start", [2]string{"09:00", "10:00"}, [2]string{"09:30", "10:30"}, true},
		{"partial overlap at end", [2]string{"09:30", "10:30"}, [2]string{"09:00", "10:00"}, true},
		{"same start, b longer", [2]string{"10:00", "11:00"}, [2]string{"10:00", "12:00"}, true},
		{"same end, b longer", [2]string{"11:00", "12:00"}, [2]string{"10:00", "12:00"}, true},
		{"disjoint", [2]string{"08:00", "09:00"}, [2]string{"13:00", "14:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := slot(t, tt.a[0], tt.a[1])
			b := slot(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.want, IntervalsOverlap(a, b))
		})
	}
}

func TestIntervalsOverlap_DifferentDates(t *testing.T) {
	a, err := FromSlot("2024-05-01", "10:00", "11:00")
	require.NoError(t, err)
	b, err := FromSlot("2024-05-02", "10:00", "11:00")
	require.NoError(t, err)

	assert.False(t, IntervalsOverlap(a, b))
}

func TestFromSlot(t *testing.T) {
	in, err := FromSlot("2024-05-01", "09:15", "10:30:45")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC), in.Start)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 45, 0, time.UTC), in.End)
	assert.Equal(t, time.UTC, in.Start.Location())
}

func TestFromSlot_Invalid(t *testing.T) {
	tests := []struct {
		name             string
		date, start, end string
	}{
		{"bad date", "2024-13-01", "09:00", "10:00"},
		{"bad start", "2024-05-01", "9am", "10:00"},
		{"bad end", "2024-05-01", "09:00", "24:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSlot(tt.date, tt.start, tt.end)
			assert.Error(t, err)
		})
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("13:45:30.250")
	require.NoError(t, err)
	assert.Equal(t, 13*time.Hour+45*time.Minute+30*time.Second+250*time.Millisecond, d)

	assert.True(t, ValidClock("00:00"))
	assert.False(t, ValidClock(""))
}
