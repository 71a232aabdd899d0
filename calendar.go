package chandratime

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/sot/chandra-time/internal/axtime"
)

// Calendar is the decomposed UTC calendar view of one time: all eight
// attributes are computed together from the date and iso renderings plus
// the MJD.
type Calendar struct {
	Year      int
	Month     int     // 1-12
	Day       int     // 1-31
	Hour      int     // 0-23
	Minute    int     // 0-59
	Second    float64 // 0-60 (60 inside a leap second)
	DayOfYear int     // 1-366
	Weekday   int     // 0-6, 0 is Monday
}

// refMonday anchors the day-of-week computation.
const refMonday = "2015:159:00:00:00"

var (
	mondayOnce sync.Once
	mondayMJD  float64
)

func refMondayMJD() float64 {
	mondayOnce.Do(func() {
		t, err := axtime.FromDate(refMonday, axtime.UTC)
		if err != nil {
			panic(fmt.Sprintf("chandratime: bad weekday reference date: %v", err))
		}
		mondayMJD = t.MJD(axtime.UTC)
	})
	return mondayMJD
}

// Calendar returns the calendar view of a scalar handle, computed on first
// access and cached.
func (d *DateTime) Calendar() (Calendar, error) {
	if d.in.IsSlice() {
		return Calendar{}, fmt.Errorf("%w: no scalar calendar for a slice input", ErrInputValue)
	}
	cals, err := d.Calendars()
	if err != nil {
		return Calendar{}, err
	}
	return cals[0], nil
}

// Calendars returns the calendar view of each element, computed on first
// access and cached. Scalar handles give a one-element slice.
func (d *DateTime) Calendars() ([]Calendar, error) {
	if d.cal != nil {
		return d.cal, nil
	}

	dates, err := d.stringsOf("date")
	if err != nil {
		return nil, err
	}
	isos, err := d.stringsOf("iso")
	if err != nil {
		return nil, err
	}
	mjds, err := d.floatsOf("mjd")
	if err != nil {
		return nil, err
	}
	if len(isos) != len(dates) || len(mjds) != len(dates) {
		return nil, fmt.Errorf("%w: mismatched calendar renderings", ErrInputValue)
	}

	cals := make([]Calendar, len(dates))
	for i := range dates {
		if cals[i], err = calendarFrom(dates[i], isos[i], mjds[i]); err != nil {
			return nil, err
		}
	}
	d.cal = cals
	return cals, nil
}

func (d *DateTime) stringsOf(format string) ([]string, error) {
	res, err := d.Get(format)
	if err != nil {
		return nil, err
	}
	if ss, ok := res.Strings(); ok {
		return ss, nil
	}
	s, ok := res.String()
	if !ok {
		return nil, fmt.Errorf("%w: format '%s' is not string-valued", ErrInputValue, format)
	}
	return []string{s}, nil
}

func (d *DateTime) floatsOf(format string) ([]float64, error) {
	res, err := d.Get(format)
	if err != nil {
		return nil, err
	}
	if fs, ok := res.Floats(); ok {
		return fs, nil
	}
	v, ok := res.Float()
	if !ok {
		return nil, fmt.Errorf("%w: format '%s' is not float-valued", ErrInputValue, format)
	}
	return []float64{v}, nil
}

// calendarFrom slices the fixed-width date (YYYY:DDD:hh:mm:ss.sss) and iso
// (YYYY-MM-DD ...) renderings into calendar attributes.
func calendarFrom(date, iso string, mjd float64) (Calendar, error) {
	if len(date) < 16 || len(iso) < 10 {
		return Calendar{}, fmt.Errorf("%w: short calendar rendering '%s'", ErrInputValue, date)
	}
	var (
		cal Calendar
		err error
	)
	fields := []struct {
		dst *int
		src string
	}{
		{&cal.Year, date[0:4]},
		{&cal.DayOfYear, date[5:8]},
		{&cal.Hour, date[9:11]},
		{&cal.Minute, date[12:14]},
		{&cal.Month, iso[5:7]},
		{&cal.Day, iso[8:10]},
	}
	for _, f := range fields {
		if *f.dst, err = strconv.Atoi(f.src); err != nil {
			return Calendar{}, fmt.Errorf("%w: bad calendar field '%s'", ErrInputValue, f.src)
		}
	}
	if cal.Second, err = strconv.ParseFloat(date[15:], 64); err != nil {
		return Calendar{}, fmt.Errorf("%w: bad seconds field '%s'", ErrInputValue, date[15:])
	}
	w := int(math.Floor(mjd-refMondayMJD())) % 7
	if w < 0 {
		w += 7
	}
	cal.Weekday = w
	return cal, nil
}
