// Package theme computes the day/night theme window for a point in time and
// the countdown until the next switch.
package theme

import (
	"errors"
	"time"
)

// Mode is the active theme.
type Mode string

const (
	// ModeDay is used between DayStart and NightStart.
	ModeDay Mode = "day"
	// ModeNight is used between NightStart and the next DayStart.
	ModeNight Mode = "night"
)

const (
	// DefaultDayStart is 07:00 local time.
	DefaultDayStart = 7 * time.Hour
	// DefaultNightStart is 19:00 local time.
	DefaultNightStart = 19 * time.Hour
)

const day = 24 * time.Hour

// Schedule describes when day and night start, as offsets from local midnight.
type Schedule struct {
	DayStart   time.Duration
	NightStart time.Duration
	// Location is the time zone of the offsets. Nil means UTC.
	Location *time.Location
}

// Window is a contiguous period with one Mode. End is exclusive.
type Window struct {
	Mode  Mode
	Start time.Time
	End   time.Time
}

// DefaultSchedule returns the 07:00 to 19:00 day schedule in loc.
func DefaultSchedule(loc *time.Location) Schedule {
	return Schedule{DayStart: DefaultDayStart, NightStart: DefaultNightStart, Location: loc}
}

// Validate checks both offsets fall within a day and day starts before night.
func (s Schedule) Validate() error {
	if s.DayStart < 0 || s.DayStart >= day || s.NightStart < 0 || s.NightStart >= day {
		return errors.New("theme offsets must be within [00:00, 24:00)")
	}
	if s.DayStart >= s.NightStart {
		return errors.New("day must start before night")
	}

	return nil
}

// At returns the window containing t. Night windows span midnight.
func (s Schedule) At(t time.Time) Window {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	dayStart := atOffset(midnight, s.DayStart)
	nightStart := atOffset(midnight, s.NightStart)

	switch {
	case t.Before(dayStart):
		prevMidnight := time.Date(t.Year(), t.Month(), t.Day()-1, 0, 0, 0, 0, loc)

		return Window{Mode: ModeNight, Start: atOffset(prevMidnight, s.NightStart), End: dayStart}
	case t.Before(nightStart):
		return Window{Mode: ModeDay, Start: dayStart, End: nightStart}
	default:
		nextMidnight := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)

		return Window{Mode: ModeNight, Start: nightStart, End: atOffset(nextMidnight, s.DayStart)}
	}
}

// Remaining returns the time left until the window ends, never negative.
func (w Window) Remaining(t time.Time) time.Duration {
	if d := w.End.Sub(t); d > 0 {
		return d
	}

	return 0
}

// atOffset resolves a wall-clock offset on the given local day. Wall clock is
// used instead of adding a duration so DST changes keep 07:00 at 07:00.
func atOffset(midnight time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int(offset % time.Hour / time.Minute)
	sec := int(offset % time.Minute / time.Second)

	return time.Date(midnight.Year(), midnight.Month(), midnight.Day(), h, m, sec, 0, midnight.Location())
}
