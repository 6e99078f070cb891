package theme_test

import (
	"portal/pkg/theme"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedule_At(t *testing.T) {
	s := theme.DefaultSchedule(time.UTC)
	date := func(d, h, m int) time.Time { return time.Date(2024, time.March, d, h, m, 0, 0, time.UTC) }

	cases := []struct {
		name  string
		at    time.Time
		mode  theme.Mode
		start time.Time
		end   time.Time
	}{
		{name: "early morning is night", at: date(10, 3, 0), mode: theme.ModeNight, start: date(9, 19, 0), end: date(10, 7, 0)},
		{name: "day start is day", at: date(10, 7, 0), mode: theme.ModeDay, start: date(10, 7, 0), end: date(10, 19, 0)},
		{name: "afternoon is day", at: date(10, 15, 30), mode: theme.ModeDay, start: date(10, 7, 0), end: date(10, 19, 0)},
		{name: "night start is night", at: date(10, 19, 0), mode: theme.ModeNight, start: date(10, 19, 0), end: date(11, 7, 0)},
		{name: "late night is night", at: date(10, 23, 59), mode: theme.ModeNight, start: date(10, 19, 0), end: date(11, 7, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.At(tc.at)
			require.Equal(t, tc.mode, w.Mode)
			require.True(t, tc.start.Equal(w.Start), "start %s", w.Start)
			require.True(t, tc.end.Equal(w.End), "end %s", w.End)
		})
	}
}

func TestSchedule_AtMonthBoundary(t *testing.T) {
	s := theme.DefaultSchedule(time.UTC)

	w := s.At(time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC))
	require.Equal(t, theme.ModeNight, w.Mode)
	require.True(t, time.Date(2024, time.February, 29, 19, 0, 0, 0, time.UTC).Equal(w.Start))

	w = s.At(time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC))
	require.True(t, time.Date(2025, time.January, 1, 7, 0, 0, 0, time.UTC).Equal(w.End))
}

func TestSchedule_UsesLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	s := theme.DefaultSchedule(loc)

	// 14:00 UTC is 08:00 in CST
	w := s.At(time.Date(2024, time.May, 5, 14, 0, 0, 0, time.UTC))
	require.Equal(t, theme.ModeDay, w.Mode)
	require.True(t, time.Date(2024, time.May, 5, 19, 0, 0, 0, loc).Equal(w.End))
}

func TestWindow_Remaining(t *testing.T) {
	s := theme.Schedule{DayStart: 6*time.Hour + 30*time.Minute, NightStart: 18 * time.Hour}
	at := time.Date(2024, time.June, 1, 17, 15, 0, 0, time.UTC)

	w := s.At(at)
	require.Equal(t, theme.ModeDay, w.Mode)
	require.Equal(t, 45*time.Minute, w.Remaining(at))
	require.Zero(t, w.Remaining(at.Add(2*time.Hour)))

	night := s.At(time.Date(2024, time.June, 1, 23, 0, 0, 0, time.UTC))
	require.Equal(t, 7*time.Hour+30*time.Minute, night.Remaining(time.Date(2024, time.June, 1, 23, 0, 0, 0, time.UTC)))
}

func TestSchedule_Validate(t *testing.T) {
	require.NoError(t, theme.DefaultSchedule(nil).Validate())
	require.Error(t, theme.Schedule{DayStart: 19 * time.Hour, NightStart: 7 * time.Hour}.Validate())
	require.Error(t, theme.Schedule{DayStart: 7 * time.Hour, NightStart: 7 * time.Hour}.Validate())
	require.Error(t, theme.Schedule{DayStart: -time.Hour, NightStart: 7 * time.Hour}.Validate())
	require.Error(t, theme.Schedule{DayStart: 7 * time.Hour, NightStart: 24 * time.Hour}.Validate())
}
