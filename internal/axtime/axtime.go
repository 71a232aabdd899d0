package axtime

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSystem maps a system code (met, tt, tai, utc, or any unambiguous
// prefix) to a System.
func ParseSystem(code string) (System, error) {
	c := strings.ToLower(code)
	if c == "" {
		return 0, fmt.Errorf("empty time system code")
	}
	switch c[0] {
	case 'm':
		return MET, nil
	case 'u':
		return UTC, nil
	case 'a':
		return TAI, nil
	case 't':
		if len(c) > 1 && c[1] == 'a' {
			return TAI, nil
		}
		return TT, nil
	}
	return 0, fmt.Errorf("unknown time system code %q", code)
}

// ParseFormat maps a format code to a Format and a decimal count for the
// seconds field of date renderings. Codes: s (seconds), j (JD), m (MJD),
// d (date), c (calendar date), f (FITS), n (elapsed day:hour:min:sec);
// d, c, and f take an optional trailing digit count, e.g. d3.
func ParseFormat(code string) (Format, int, error) {
	c := strings.ToLower(code)
	if c == "" {
		return 0, 0, fmt.Errorf("empty time format code")
	}
	dec := 0
	if len(c) > 1 {
		n, err := strconv.Atoi(c[1:])
		if err != nil {
			return 0, 0, fmt.Errorf("bad decimal count in time format code %q", code)
		}
		dec = n
	}
	switch c[0] {
	case 's':
		return Secs, dec, nil
	case 'j':
		return JD, dec, nil
	case 'm':
		return MJD, dec, nil
	case 'd':
		return Date, dec, nil
	case 'c':
		return CalDate, dec, nil
	case 'f':
		return FITS, dec, nil
	case 'n':
		return NumDay, dec, nil
	}
	return 0, 0, fmt.Errorf("unknown time format code %q", code)
}

// NumDay is the elapsed ddd:hh:mm:ss.s... representation. It is an
// axTime-level code only and never appears inside Time itself.
const NumDay Format = -1

// ConvertTime converts one time value between systems and formats. All five
// arguments are strings: the value, the input system and format codes, and
// the output system and format codes.
func ConvertTime(timeIn, sysIn, fmtIn, sysOut, fmtOut string) (string, error) {
	si, err := ParseSystem(sysIn)
	if err != nil {
		return "", err
	}
	fi, _, err := ParseFormat(fmtIn)
	if err != nil {
		return "", err
	}
	so, err := ParseSystem(sysOut)
	if err != nil {
		return "", err
	}
	fo, dec, err := ParseFormat(fmtOut)
	if err != nil {
		return "", err
	}

	t, err := parse(timeIn, si, fi)
	if err != nil {
		return "", err
	}
	return render(t, so, fo, dec)
}

func parse(val string, sys System, f Format) (Time, error) {
	switch f {
	case Date:
		return FromDate(val, sys)
	case CalDate:
		return FromCalDate(val, sys)
	case FITS:
		return FromFITS(val, sys)
	case NumDay:
		var day, hour, minute int64
		var second float64
		n, err := fmt.Sscanf(val, "%d:%d:%d:%g", &day, &hour, &minute, &second)
		if err != nil || n != 4 {
			return Time{}, fmt.Errorf("malformed elapsed time string %q", val)
		}
		sec := float64(day)*day2sec + float64(hour)*3600 + float64(minute)*60 + second
		return FromSeconds(sec, sys), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return Time{}, fmt.Errorf("malformed numeric time %q", val)
	}
	switch f {
	case Secs:
		return FromSeconds(v, sys), nil
	case JD:
		return FromJD(v, sys), nil
	default:
		return FromMJD(v, sys), nil
	}
}

func render(t Time, sys System, f Format, dec int) (string, error) {
	switch f {
	case Secs:
		return fmt.Sprintf("%.9f", t.Seconds(sys)), nil
	case JD:
		return fmt.Sprintf("%.9f", t.JD(sys)), nil
	case MJD:
		return fmt.Sprintf("%.9f", t.MJD(sys)), nil
	case NumDay:
		sec := t.Seconds(sys)
		day := int64(sec / day2sec)
		sec -= float64(day) * day2sec
		hour := int64(sec) / 3600
		sec -= float64(hour) * 3600
		minute := int64(sec) / 60
		sec -= float64(minute) * 60
		return fmt.Sprintf("%d:%d:%d:%.10f", day, hour, minute, sec), nil
	case Date, CalDate, FITS:
		return t.DateString(sys, f, dec), nil
	}
	return "", fmt.Errorf("unknown output format %d", int(f))
}
