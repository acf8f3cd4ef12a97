// Package deadline computes the weekly response deadline: Wednesday 04:44
// Berlin time.
package deadline

import (
	"fmt"
	"time"

	// Embedded zone database so Europe/Berlin resolves on minimal images
	_ "time/tzdata"
)

const (
	deadlineWeekday = time.Wednesday
	deadlineHour    = 4
	deadlineMinute  = 44
)

var berlin = mustLoadLocation("Europe/Berlin")

var (
	germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	germanMonths   = [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load time zone %s: %v", name, err))
	}
	return loc
}

// Location returns the zone the deadline is defined in
func Location() *time.Location {
	return berlin
}

// Countdown is the time left until a deadline, split into display units
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Next returns the first Wednesday 04:44 Berlin time strictly after ref, in UTC
func Next(ref time.Time) time.Time {
	now := ref.In(berlin)
	days := (int(deadlineWeekday) - int(now.Weekday()) + 7) % 7

	candidate := time.Date(now.Year(), now.Month(), now.Day()+days, deadlineHour, deadlineMinute, 0, 0, berlin)
	if !candidate.After(now) {
		candidate = time.Date(now.Year(), now.Month(), now.Day()+days+7, deadlineHour, deadlineMinute, 0, 0, berlin)
	}

	return candidate.UTC()
}

// Remaining splits the time between ref and deadline, clamped at zero
func Remaining(deadline, ref time.Time) Countdown {
	diff := deadline.Sub(ref)
	if diff < 0 {
		diff = 0
	}
	total := int(diff / time.Second)

	return Countdown{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// Expired reports whether nothing is left on the countdown
func (c Countdown) Expired() bool {
	return c == Countdown{}
}

// String renders the countdown as "<d>T hh:mm:ss"
func (c Countdown) String() string {
	return fmt.Sprintf("%dT %02d:%02d:%02d", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// FormatForDisplay renders deadline in Berlin time in German, e.g.
// "Mittwoch, 11. Februar 2026 um 04:44 Uhr".
func FormatForDisplay(deadline time.Time) string {
	local := deadline.In(berlin)
	return fmt.Sprintf("%s, %02d. %s %d um %02d:%02d Uhr",
		germanWeekdays[local.Weekday()],
		local.Day(),
		germanMonths[local.Month()-1],
		local.Year(),
		local.Hour(),
		local.Minute(),
	)
}

// ISO formats t the way browsers do for Date.toISOString
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
