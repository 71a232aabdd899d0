package chandratime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// T1998 is the Unix time of the mission reference epoch: seconds from
// 1970:001:00:00:00 UTC to 1998-01-01T00:00:00 TT.
const T1998 = 883612736.816

// plotdateShift converts a matplotlib date number (days since year 1) to a
// Julian Day.
const plotdateShift = 1721424.5

// gretaGuard is the exclusive upper bound for values detected as greta;
// larger floats fall through to later formats.
const gretaGuard = 2099001.0

// transformFunc rewrites a time value string before or after conversion.
// Transforms run against a Registry so they can reach its day-start
// convention, clock, and year cache.
type transformFunc func(r *Registry, val string) (string, error)

// guardFunc vetoes a regex match during format detection.
type guardFunc func(val string) bool

var (
	reDate      = regexp.MustCompile(`^(\d{4}):(\d{3}):(\d{2}):(\d{2}):(\d{2})(\.\d*)?$`)
	reGreta     = regexp.MustCompile(`^(\d{4})(\d{3})\.(\d{2})?(\d{2})?(\d{2})?(\d+)?$`)
	reTimeFITS  = regexp.MustCompile(`T\d{2}:\d{2}:\d{2}\.\d+$`)
	reTimeOfDay = regexp.MustCompile(`:\d{2}:\d{2}:\d{2}\.\d+$`)
)

// transforms is the named catalog the format table resolves against.
var transforms = map[string]transformFunc{
	"greta_to_date":     gretaToDate,
	"date_to_greta":     dateToGreta,
	"day_start_fits":    dayStartFITS,
	"strip_time_fits":   stripTimeFITS,
	"day_start_date":    dayStartDate,
	"strip_time_date":   stripTimeDate,
	"relday_to_secs":    reldayToSecs,
	"secs_to_relday":    secsToRelday,
	"frac_year_to_secs": fracYearToSecs,
	"secs_to_frac_year": secsToFracYear,
	"unix_to_secs":      unixToSecs,
	"secs_to_unix":      secsToUnix,
	"iso_to_fits":       isoToFITS,
	"fits_to_iso":       fitsToISO,
	"plotdate_to_jd":    plotdateToJD,
	"jd_to_plotdate":    jdToPlotdate,
}

var guards = map[string]guardFunc{
	"greta_range": gretaRange,
}

func gretaRange(val string) bool {
	v, err := strconv.ParseFloat(val, 64)
	return err == nil && v < gretaGuard
}

func parseNum(val string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return 0, fmt.Errorf("%w '%s'", ErrInputValue, val)
	}
	return v, nil
}

// gretaToDate rewrites YYYYDDD.hhmmss[sss] as YYYY:DDD:hh:mm:ss[.sss].
// The value is first reprinted with nine decimals so the hhmmssfff digit
// positions are fully populated.
func gretaToDate(_ *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	m := reGreta.FindStringSubmatch(fmt.Sprintf("%.9f", v))
	if m == nil {
		return "", fmt.Errorf("%w '%s'", ErrInputValue, val)
	}
	out := fmt.Sprintf("%s:%s:%s:%s:%s", m[1], m[2], m[3], m[4], m[5])
	if m[6] != "" {
		out += "." + m[6]
	}
	return out, nil
}

func dateToGreta(_ *Registry, val string) (string, error) {
	m := reDate.FindStringSubmatch(val)
	if m == nil {
		return "", fmt.Errorf("%w '%s'", ErrInputValue, val)
	}
	out := fmt.Sprintf("%s%s.%s%s%s", m[1], m[2], m[3], m[4], m[5])
	if m[6] != "" {
		out += strings.TrimPrefix(m[6], ".")
	}
	return out, nil
}

func dayStartFITS(r *Registry, val string) (string, error) {
	return val + "T" + r.dayStart, nil
}

func stripTimeFITS(_ *Registry, val string) (string, error) {
	return reTimeFITS.ReplaceAllString(val, ""), nil
}

func dayStartDate(r *Registry, val string) (string, error) {
	return val + ":" + r.dayStart, nil
}

func stripTimeDate(_ *Registry, val string) (string, error) {
	return reTimeOfDay.ReplaceAllString(val, ""), nil
}

func reldayToSecs(r *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat(r.nowUnix() + v*86400.0 - T1998), nil
}

func secsToRelday(r *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat((v + T1998 - r.nowUnix()) / 86400.0), nil
}

func fracYearToSecs(r *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	year := int(v)
	se, err := r.yearStartEnd(year)
	if err != nil {
		return "", err
	}
	return formatFloat((v-float64(year))*(se[1]-se[0]) + se[0]), nil
}

func secsToFracYear(r *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	date, _, err := r.convertScalar(formatFloat(v), ConvertOptions{FormatIn: "secs", FormatOut: "date"})
	if err != nil {
		return "", err
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return "", fmt.Errorf("%w '%s'", ErrInputValue, date)
	}
	se, err := r.yearStartEnd(year)
	if err != nil {
		return "", err
	}
	return formatFloat((v-se[0])/(se[1]-se[0]) + float64(year)), nil
}

func unixToSecs(_ *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat(v - T1998), nil
}

func secsToUnix(_ *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat(v + T1998), nil
}

func isoToFITS(_ *Registry, val string) (string, error) {
	return strings.ReplaceAll(val, " ", "T"), nil
}

func fitsToISO(_ *Registry, val string) (string, error) {
	return strings.ReplaceAll(val, "T", " "), nil
}

func plotdateToJD(_ *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat(v + plotdateShift), nil
}

func jdToPlotdate(_ *Registry, val string) (string, error) {
	v, err := parseNum(val)
	if err != nil {
		return "", err
	}
	return formatFloat(v - plotdateShift), nil
}
