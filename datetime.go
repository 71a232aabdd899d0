package chandratime

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DateTime is a time value bound to a registry. The input is captured at
// construction and converted on demand through the accessor methods.
type DateTime struct {
	reg    *Registry
	in     Input
	format string

	cal []Calendar
}

// DateTime builds a handle on this registry. With the current-time marker
// the time is captured immediately, from the CXOTIME_NOW environment
// variable if set (useful for testing) and the registry clock otherwise;
// a format may not be supplied in that case. A non-empty format must name
// a catalog entry.
func (r *Registry) DateTime(in Input, format string) (*DateTime, error) {
	if in.IsNow() {
		if format != "" {
			return nil, fmt.Errorf("%w: cannot supply a format without a time", ErrInputValue)
		}
		if now := os.Getenv("CXOTIME_NOW"); now != "" {
			in = String(now)
		} else {
			in = Float(r.nowUnix())
			format = "unix"
		}
	}
	if format == "" {
		format = in.fmtHint
	}
	if format != "" {
		if _, ok := r.byName[format]; !ok {
			return nil, fmt.Errorf("%w '%s'", ErrInputFormat, format)
		}
	}
	return &DateTime{reg: r, in: in, format: format}, nil
}

// New builds a DateTime on the default registry. An empty format means
// auto-detection.
func New(in Input, format string) (*DateTime, error) {
	return Default().DateTime(in, format)
}

// Copy returns a new handle with the same input and format and a fresh
// calendar cache.
func (d *DateTime) Copy() *DateTime {
	return &DateTime{reg: d.reg, in: d.in, format: d.format}
}

// Format returns the format the handle was constructed with; empty means
// the format is auto-detected per conversion.
func (d *DateTime) Format() string { return d.format }

// Get converts the handle's time to any catalog format. Slice inputs give
// slice results.
func (d *DateTime) Get(format string) (Result, error) {
	return d.reg.ConvertMany(d.in, ConvertOptions{FormatIn: d.format, FormatOut: format})
}

func (d *DateTime) getString(format string) (string, error) {
	res, err := d.Get(format)
	if err != nil {
		return "", err
	}
	s, ok := res.String()
	if !ok {
		return "", fmt.Errorf("%w: no scalar '%s' value for a slice input", ErrInputValue, format)
	}
	return s, nil
}

func (d *DateTime) getFloat(format string) (float64, error) {
	res, err := d.Get(format)
	if err != nil {
		return 0, err
	}
	v, ok := res.Float()
	if !ok {
		return 0, fmt.Errorf("%w: no scalar '%s' value for a slice input", ErrInputValue, format)
	}
	return v, nil
}

// Date returns the time as YYYY:DDD:hh:mm:ss.sss (UTC).
func (d *DateTime) Date() (string, error) { return d.getString("date") }

// FITS returns the time as YYYY-MM-DDThh:mm:ss.sss (TT).
func (d *DateTime) FITS() (string, error) { return d.getString("fits") }

// Caldate returns the time as YYYYMonDD at hh:mm:ss.sss (UTC).
func (d *DateTime) Caldate() (string, error) { return d.getString("caldate") }

// ISO returns the time as YYYY-MM-DD hh:mm:ss.sss (UTC).
func (d *DateTime) ISO() (string, error) { return d.getString("iso") }

// Greta returns the time as YYYYDDD.hhmmsssss (UTC).
func (d *DateTime) Greta() (string, error) { return d.getString("greta") }

// YearDoy returns the time as YYYY:DDD (UTC).
func (d *DateTime) YearDoy() (string, error) { return d.getString("year_doy") }

// Secs returns the time as seconds since the mission reference epoch (TT).
func (d *DateTime) Secs() (float64, error) { return d.getFloat("secs") }

// JD returns the time as a Julian Day (UTC).
func (d *DateTime) JD() (float64, error) { return d.getFloat("jd") }

// MJD returns the time as a Modified Julian Day (UTC).
func (d *DateTime) MJD() (float64, error) { return d.getFloat("mjd") }

// Unix returns the time as Unix seconds.
func (d *DateTime) Unix() (float64, error) { return d.getFloat("unix") }

// FracYear returns the time as a floating point year.
func (d *DateTime) FracYear() (float64, error) { return d.getFloat("frac_year") }

// Plotdate returns the time as a matplotlib date number, days since year 1.
func (d *DateTime) Plotdate() (float64, error) { return d.getFloat("plotdate") }

// jdValues returns the handle's Julian Day values, one per element.
func (d *DateTime) jdValues() ([]float64, error) {
	res, err := d.Get("jd")
	if err != nil {
		return nil, err
	}
	if v, ok := res.Float(); ok {
		return []float64{v}, nil
	}
	jds, _ := res.Floats()
	return jds, nil
}

// AddDays returns a new handle offset by a number of days. A slice-valued
// handle is offset element-wise.
func (d *DateTime) AddDays(days float64) (*DateTime, error) {
	if d.in.IsSlice() {
		jds, err := d.jdValues()
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(jds))
		for i, jd := range jds {
			out[i] = jd + days
		}
		return d.reg.DateTime(Floats(out), "jd")
	}
	jd, err := d.JD()
	if err != nil {
		return nil, err
	}
	return d.reg.DateTime(Float(jd+days), "jd")
}

// SubDays returns a new handle offset backwards by a number of days.
func (d *DateTime) SubDays(days float64) (*DateTime, error) {
	return d.AddDays(-days)
}

// AddDaysSlice broadcasts a scalar handle over a slice of day offsets. For
// a slice-valued handle the offsets pair up element-wise and the lengths
// must match. The result is a slice-valued handle.
func (d *DateTime) AddDaysSlice(days []float64) (*DateTime, error) {
	jds, err := d.jdValues()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(days))
	switch {
	case !d.in.IsSlice():
		for i, dd := range days {
			out[i] = jds[0] + dd
		}
	case len(jds) == len(days):
		for i, dd := range days {
			out[i] = jds[i] + dd
		}
	default:
		return nil, fmt.Errorf("%w: %d day offsets against %d times", ErrInputValue, len(days), len(jds))
	}
	return d.reg.DateTime(Floats(out), "jd")
}

// DiffDays returns the difference d - other in days for scalar handles.
func (d *DateTime) DiffDays(other *DateTime) (float64, error) {
	jd1, err := d.JD()
	if err != nil {
		return 0, err
	}
	jd2, err := other.JD()
	if err != nil {
		return 0, err
	}
	return jd1 - jd2, nil
}

// DiffDaysSlice returns the element-wise difference d - other in days,
// broadcasting a scalar handle on either side. Two slice-valued handles
// must have the same length.
func (d *DateTime) DiffDaysSlice(other *DateTime) ([]float64, error) {
	a, err := d.jdValues()
	if err != nil {
		return nil, err
	}
	b, err := other.jdValues()
	if err != nil {
		return nil, err
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	aScalar, bScalar := !d.in.IsSlice(), !other.in.IsSlice()
	if (len(a) != n && !aScalar) || (len(b) != n && !bScalar) {
		return nil, fmt.Errorf("%w: %d times against %d", ErrInputValue, len(a), len(b))
	}
	out := make([]float64, n)
	for i := range out {
		ai, bi := a[0], b[0]
		if !aScalar {
			ai = a[i]
		}
		if !bScalar {
			bi = b[i]
		}
		out[i] = ai - bi
	}
	return out, nil
}

// DayStart returns a new handle at 00:00:00 of the same day.
func (d *DateTime) DayStart() (*DateTime, error) {
	date, err := d.Date()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(date, ":", 3)
	return d.reg.DateTime(String(parts[0]+":"+parts[1]+":00:00:00"), "")
}

// DayEnd returns a new handle at 00:00:00 of the following day.
func (d *DateTime) DayEnd() (*DateTime, error) {
	date, err := d.Date()
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(date, ":", 3)
	doy, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w '%s'", ErrInputValue, date)
	}
	return d.reg.DateTime(String(fmt.Sprintf("%s:%03d:00:00:00", parts[0], doy+1)), "")
}
