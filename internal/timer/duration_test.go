package timer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		input  string
		millis int64
	}{
		{"30s", 30000},
		{"5m", 300000},
		{"1h", 3600000},
		{"0s", 0},
		{"90M", 5400000},
		{"2H", 7200000},
		{"120s", 120000},
	}
	for _, tc := range cases {
		millis, err := ParseDuration(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.millis, millis, "input %q", tc.input)
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	inputs := []string{"", "30", "s", "30x", "30 s", " 30s", "30s ", "-5s", "1.5h", "a30s", "30sx", "5d"}
	for _, input := range inputs {
		_, err := ParseDuration(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		millis int64
		want   string
	}{
		{30000, "30s"},
		{300000, "5m"},
		{3600000, "1h"},
		{5400000, "90m"},
		{90000, "90s"},
		{0, "0s"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatDuration(tc.millis))
	}
}

func TestFindCaptionDelay(t *testing.T) {
	cases := []struct {
		caption string
		millis  int64
		found   bool
	}{
		{"check this 30s", 30000, true},
		{"30s", 30000, true},
		{"delete in 5m please", 300000, true},
		{"1H photo", 3600000, true},
		{"10s or 5m", 10000, true},
		{"", 0, false},
		{"no duration here", 0, false},
		{"a30s", 0, false},
		{"30sx", 0, false},
		{"30", 0, false},
	}
	for _, tc := range cases {
		millis, found := FindCaptionDelay(tc.caption)
		require.Equal(t, tc.found, found, "caption %q", tc.caption)
		if tc.found {
			require.Equal(t, tc.millis, millis, "caption %q", tc.caption)
		}
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input  string
		minute int
	}{
		{"22:00", 1320},
		{"08:30", 510},
		{"0:05", 5},
		{"23:59", 1439},
		{"00:00", 0},
	}
	for _, tc := range cases {
		minute, err := ParseClock(tc.input)
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.minute, minute, "input %q", tc.input)
	}

	for _, input := range []string{"24:00", "12:60", "12", "12:5", "ab:cd", "", "12:345"} {
		_, err := ParseClock(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestFormatClock(t *testing.T) {
	require.Equal(t, "22:00", FormatClock(1320))
	require.Equal(t, "08:05", FormatClock(485))
	require.Equal(t, "00:00", FormatClock(0))
}
