// Package axtime is the mission time-system converter. It transforms a
// single time value between the four physical time systems (MET, TT, TAI,
// UTC) and the wire formats used by the ground system: elapsed seconds,
// Julian Day, Modified Julian Day, day-of-year date strings, calendar date
// strings, FITS date strings, and elapsed day:time strings.
//
// Times are held internally as a Modified Julian Day in the TT system,
// split into integer and fractional parts to preserve sub-second precision
// across the full mission epoch range. Conversions into and out of UTC are
// leap-second aware, including instants that fall inside a leap second.
package axtime

import (
	"fmt"
	"math"
	"strings"
)

// System identifies one of the four physical time systems.
type System int

const (
	MET System = iota // Mission Elapsed Time
	TT                // Terrestrial Time
	TAI               // International Atomic Time
	UTC               // Coordinated Universal Time
)

// Format identifies a time representation.
type Format int

const (
	Secs    Format = iota // seconds since the mission reference epoch
	JD                    // Julian Day
	MJD                   // Modified Julian Day
	Date                  // yyyy:ddd:hh:mm:ss.s...
	CalDate               // yyyyMondd at hh:mm:ss.s...
	FITS                  // yyyy-mm-ddThh:mm:ss.s...
)

const (
	mjd0      = 2400000.5     // JD - MJD
	mjd1972   = 41317         // MJD at 1972-01-01
	day2sec   = 86400.0       // seconds per day
	sec2day   = 1.0 / day2sec // days per second
	mjdRefInt = 50814         // MJD at the 1998.0 TT reference epoch
	refLeaps  = 31.0          // leap seconds in effect at the reference epoch
	tai2tt    = 32.184        // TT - TAI
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func monthDays(year int64) [12]int64 {
	d := [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if year%4 == 0 {
		d[1] = 29
	}
	return d
}

// Time is one instant, held as MJD(TT) split into integer and fractional
// days. The leap-second count in effect at the instant and an in-leap-second
// flag are carried alongside so UTC renderings stay exact through a leap.
type Time struct {
	mjdInt   int64
	mjdFr    float64
	myLeaps  float64
	leapFlag bool
}

// FromSeconds creates a Time from elapsed seconds since the reference epoch,
// interpreted in the given system.
func FromSeconds(sec float64, sys System) Time {
	i := int64(sec)
	return fromSecondsParts(i, sec-float64(i), sys)
}

func fromSecondsParts(tti int64, ttf float64, sys System) Time {
	k := int64(float64(tti) * sec2day)
	x := float64(tti)*sec2day - float64(k)
	x += ttf * sec2day
	k += mjdRefInt

	var t Time
	total := 0.0
	if sys == UTC {
		// The reference epoch is TT; first remove its leap-second count,
		// then apply the count in effect at the instant itself.
		total -= refLeaps
		tbl := currentLeaps()
		i := len(tbl.mjd) - 1
		j := int64(float64(k) + x)
		for j < tbl.mjd[i] && i > 0 {
			i--
		}
		if float64(k)+x-float64(tbl.mjd[i]) < sec2day && i > 0 {
			i--
			t.leapFlag = true
		}
		total += tbl.secs[i]
		t.myLeaps = tbl.secs[i]
	}

	x += total * sec2day
	j := int64(x)
	t.mjdInt = k + j
	t.mjdFr = x - float64(j)
	if t.mjdFr < 0 {
		t.mjdFr++
		t.mjdInt--
	}
	if sys != UTC {
		t.myLeaps, t.leapFlag = currentLeaps().at(t.mjdInt, t.mjdFr)
	}
	return t
}

// FromMJD creates a Time from a Modified Julian Day in the given system.
func FromMJD(mjd float64, sys System) Time {
	i := int64(mjd)
	return fromMJDParts(i, mjd-float64(i), sys)
}

// FromJD creates a Time from a Julian Day in the given system.
func FromJD(jd float64, sys System) Time {
	i := int64(jd)
	return fromMJDParts(i-2400000, jd-float64(i)-0.5, sys)
}

func fromMJDParts(tti int64, ttf float64, sys System) Time {
	k, x := tti, ttf

	var t Time
	total := 0.0
	switch sys {
	case UTC:
		tbl := currentLeaps()
		i := len(tbl.mjd) - 1
		for k < tbl.mjd[i] && i > 0 {
			i--
		}
		if i < len(tbl.mjd)-1 && k+1 == tbl.mjd[i+1] &&
			float64(tbl.mjd[i+1]-k)+x < sec2day && i > 0 {
			i--
			t.leapFlag = true
		}
		total += tbl.secs[i]
		t.myLeaps = tbl.secs[i]
		total += tai2tt
	case TAI:
		total += tai2tt
	}

	x += total * sec2day
	j := int64(x)
	t.mjdInt = k + j
	t.mjdFr = x - float64(j)
	if t.mjdFr < 0 {
		t.mjdFr++
		t.mjdInt--
	}
	if sys != UTC {
		t.myLeaps, t.leapFlag = currentLeaps().at(t.mjdInt, t.mjdFr)
	}
	return t
}

// FromDate creates a Time from a yyyy:ddd:hh:mm:ss.s... date string.
func FromDate(date string, sys System) (Time, error) {
	var year, day, hour, minute int64
	var second float64
	n, err := fmt.Sscanf(date, "%d:%d:%d:%d:%g", &year, &day, &hour, &minute, &second)
	if err != nil || n != 5 {
		return Time{}, fmt.Errorf("malformed date string %q", date)
	}
	return fromCalendar(year, day, hour, minute, second, sys), nil
}

// FromCalDate creates a Time from a yyyyMondd at hh:mm:ss.s... string.
func FromCalDate(date string, sys System) (Time, error) {
	var year, day, hour, minute int64
	var mon string
	var second float64
	n, err := fmt.Sscanf(date, "%d%3s%d at %d:%d:%g", &year, &mon, &day, &hour, &minute, &second)
	if err != nil || n != 6 {
		return Time{}, fmt.Errorf("malformed calendar date string %q", date)
	}
	mon = strings.ToUpper(mon[:1]) + strings.ToLower(mon[1:])
	days := monthDays(year)
	m := 0
	for mon != monthNames[m] {
		day += days[m]
		m++
		if m > 11 {
			return Time{}, fmt.Errorf("unknown month in calendar date %q", date)
		}
	}
	return fromCalendar(year, day, hour, minute, second, sys), nil
}

// FromFITS creates a Time from a yyyy-mm-ddThh:mm:ss.s... string. A bare
// yyyy-mm-dd date is accepted as midnight.
func FromFITS(date string, sys System) (Time, error) {
	var year, mon, day, hour, minute int64
	var second float64
	n, _ := fmt.Sscanf(date, "%d-%d-%dT%d:%d:%g", &year, &mon, &day, &hour, &minute, &second)
	if n != 6 && n != 3 {
		return Time{}, fmt.Errorf("malformed FITS date string %q", date)
	}
	if mon < 1 || mon > 12 {
		return Time{}, fmt.Errorf("month out of range in FITS date %q", date)
	}
	days := monthDays(year)
	for i := int64(0); i < mon-1; i++ {
		day += days[i]
	}
	return fromCalendar(year, day, hour, minute, second, sys), nil
}

// fromCalendar converts year + day-of-year + time-of-day to MJD parts.
// Day-of-year values past the end of the year roll into following years.
func fromCalendar(year, doy, hour, minute int64, second float64, sys System) Time {
	day := doy
	day += (year-1972)*365 - 1
	day += (year - 1969) / 4
	day += mjd1972
	second += float64(hour)*3600 + float64(minute)*60
	return fromMJDParts(day, second*sec2day, sys)
}

// met returns elapsed seconds since the reference epoch on the TT scale.
func (t Time) met() float64 {
	return (float64(t.mjdInt-mjdRefInt) + t.mjdFr) * day2sec
}

// Seconds returns the time as elapsed seconds since the reference epoch in
// the given system. MET, TT, and TAI elapse uniformly and agree; UTC differs
// by the leap seconds accumulated since the reference epoch.
func (t Time) Seconds(sys System) float64 {
	if sys == UTC {
		return t.met() - t.myLeaps + refLeaps
	}
	return t.met()
}

// MJD returns the time as a Modified Julian Day in the given system.
func (t Time) MJD(sys System) float64 {
	tt := 0.0
	switch sys {
	case UTC:
		tt -= t.myLeaps * sec2day
		tt -= tai2tt * sec2day
	case TAI:
		tt -= tai2tt * sec2day
	}
	return tt + float64(t.mjdInt) + t.mjdFr
}

// JD returns the time as a Julian Day in the given system.
func (t Time) JD(sys System) float64 {
	return t.MJD(sys) + mjd0
}

// mjdParts returns the MJD split into integer and fractional days for the
// given system, normalized so the fraction lies in [0, 1).
func (t Time) mjdParts(sys System) (int64, float64) {
	k, x := t.mjdInt, t.mjdFr
	switch sys {
	case TAI:
		x -= tai2tt * sec2day
	case UTC:
		x -= (tai2tt + t.myLeaps) * sec2day
	}
	if x < 0 {
		x++
		k--
	} else if x >= 1 {
		x--
		k++
	}
	return k, x
}

// DateString renders the time in the given system as a Date, CalDate, or
// FITS string with dec decimals in the seconds field.
func (t Time) DateString(sys System, f Format, dec int) string {
	k, x := t.mjdParts(sys)
	if sys == UTC && t.leapFlag {
		x -= sec2day
	}
	for x < 0 {
		x++
		k--
	}
	for x >= 1 {
		x--
		k++
	}

	// Add half an output quantum up front and remove it after splitting the
	// fields, so 59.9999 does not render as 60.0.
	dsec := 0.5 * math.Pow(10, float64(-dec))
	day := k - mjd1972
	second := x*day2sec + dsec
	var hour, minute int64
	if sys == UTC && t.leapFlag {
		second++
		hour = int64(second) / 3600
		if hour > 23 {
			hour--
		}
		second -= float64(hour) * 3600
		minute = int64(second) / 60
		if minute > 59 {
			minute--
		}
		second -= float64(minute) * 60
	} else {
		hour = int64(second) / 3600
		second -= float64(hour) * 3600
		minute = int64(second) / 60
		second -= float64(minute) * 60
	}
	if hour > 23 {
		hour -= 24
		day++
	}
	second -= dsec
	if second < 0 {
		second = 0
	}

	// Walk forward from 1972 consuming whole years, honoring the
	// quadrennial leap-year cycle. Valid for 1972 through 2099.
	day++
	year := int64(1972)
	i := 0
	for day > 365 {
		if i == 0 {
			if day == 366 {
				break
			}
			day--
		}
		day -= 365
		year++
		i = (i + 1) % 4
	}

	var date string
	if dec > 0 {
		date = fmt.Sprintf("%4d:%03d:%02d:%02d:%0*.*f", year, day, hour, minute, dec+3, dec, second)
	} else {
		date = fmt.Sprintf("%4d:%03d:%02d:%02d:%02.0f", year, day, hour, minute, second)
	}
	switch f {
	case CalDate, FITS:
		return monDay(date, f)
	default:
		return date
	}
}

// monDay rewrites the year:doy prefix of a rendered date string as a
// calendar or FITS prefix, keeping the time-of-day suffix verbatim.
func monDay(date string, f Format) string {
	var year, day int64
	fmt.Sscanf(date, "%d:%d", &year, &day)
	days := monthDays(year)
	m := 0
	for day > days[m] {
		day -= days[m]
		m++
	}
	if f == CalDate {
		return fmt.Sprintf("%04d%s%02d at %s", year, monthNames[m], day, date[9:])
	}
	return fmt.Sprintf("%04d-%02d-%02dT%s", year, m+1, day, date[9:])
}
