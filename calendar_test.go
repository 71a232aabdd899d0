package chandratime

import (
	"errors"
	"math"
	"testing"
)

func TestCalendarScalar(t *testing.T) {
	t.Parallel()

	d := newHandle(t, String("1999:204:23:54:55.816"), "")
	cal, err := d.Calendar()
	if err != nil {
		t.Fatal(err)
	}

	want := Calendar{
		Year:      1999,
		Month:     7,
		Day:       23,
		Hour:      23,
		Minute:    54,
		DayOfYear: 204,
		Weekday:   4, // Friday
	}
	if cal.Year != want.Year || cal.Month != want.Month || cal.Day != want.Day ||
		cal.Hour != want.Hour || cal.Minute != want.Minute ||
		cal.DayOfYear != want.DayOfYear || cal.Weekday != want.Weekday {
		t.Errorf("Calendar = %+v, want %+v", cal, want)
	}
	if math.Abs(cal.Second-55.816) > 1e-6 {
		t.Errorf("Second = %v, want 55.816", cal.Second)
	}
}

func TestCalendarWeekdayReference(t *testing.T) {
	t.Parallel()

	// Noon of the reference Monday itself.
	d := newHandle(t, String("2015:159:12:00:00"), "")
	cal, err := d.Calendar()
	if err != nil {
		t.Fatal(err)
	}
	if cal.Weekday != 0 {
		t.Errorf("Weekday = %d, want 0 (Monday)", cal.Weekday)
	}
	if cal.Month != 6 || cal.Day != 8 {
		t.Errorf("Month/Day = %d/%d, want 6/8", cal.Month, cal.Day)
	}
}

func TestCalendarsSlice(t *testing.T) {
	t.Parallel()

	d := newHandle(t, Strings([]string{"2015:159:12:00:00", "2015:160:12:00:00"}), "")
	cals, err := d.Calendars()
	if err != nil {
		t.Fatal(err)
	}
	if len(cals) != 2 {
		t.Fatalf("len(Calendars) = %d, want 2", len(cals))
	}
	for i, wantWday := range []int{0, 1} {
		if cals[i].Weekday != wantWday {
			t.Errorf("cals[%d].Weekday = %d, want %d", i, cals[i].Weekday, wantWday)
		}
	}

	if _, err := d.Calendar(); !errors.Is(err, ErrInputValue) {
		t.Errorf("Calendar on slice handle error = %v, want %v", err, ErrInputValue)
	}
}

func TestCalendarCached(t *testing.T) {
	t.Parallel()

	d := newHandle(t, String("2015:159:12:00:00"), "")
	first, err := d.Calendars()
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Calendars()
	if err != nil {
		t.Fatal(err)
	}
	if &first[0] != &second[0] {
		t.Error("Calendars recomputed instead of using the cache")
	}
}
