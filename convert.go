package chandratime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sot/chandra-time/internal/axtime"
)

// ConvertOptions selects the input and output of a conversion. Zero values
// mean: auto-detect the input format, use each format's default time
// system, and convert to secs.
type ConvertOptions struct {
	FormatIn  string
	SystemIn  string
	FormatOut string
	SystemOut string
}

type inputKind int

const (
	kindNow inputKind = iota
	kindString
	kindFloat
	kindStrings
	kindFloats
)

// Input is one conversion input: the current time, a single string or
// float, or a slice of either. The zero Input means "now".
type Input struct {
	kind    inputKind
	s       string
	f       float64
	ss      []string
	fs      []float64
	fmtHint string
}

// Now returns the input marker for the current time.
func Now() Input { return Input{} }

// String wraps a single time string, e.g. "2011:001:12:23:45.001".
func String(s string) Input { return Input{kind: kindString, s: s} }

// Float wraps a single numeric time, e.g. mission seconds or a Julian Day.
func Float(v float64) Input { return Input{kind: kindFloat, f: v} }

// Strings wraps a slice of time strings.
func Strings(ss []string) Input { return Input{kind: kindStrings, ss: ss} }

// Floats wraps a slice of numeric times.
func Floats(fs []float64) Input { return Input{kind: kindFloats, fs: fs} }

// TimeLike is any external value that can state its time in mission
// elapsed seconds. DateTime implements it.
type TimeLike interface {
	Secs() (float64, error)
}

// FromTimeLike wraps an external time value as an input in the secs format.
func FromTimeLike(t TimeLike) (Input, error) {
	secs, err := t.Secs()
	if err != nil {
		return Input{}, err
	}
	return Input{kind: kindFloat, f: secs, fmtHint: "secs"}, nil
}

// IsNow reports whether the input is the current-time marker.
func (in Input) IsNow() bool { return in.kind == kindNow }

// IsSlice reports whether the input holds a slice.
func (in Input) IsSlice() bool { return in.kind == kindStrings || in.kind == kindFloats }

// Len returns the number of elements: 1 for scalar inputs.
func (in Input) Len() int {
	switch in.kind {
	case kindStrings:
		return len(in.ss)
	case kindFloats:
		return len(in.fs)
	}
	return 1
}

type resultKind int

const (
	resString resultKind = iota
	resFloat
	resStrings
	resFloats
)

// Result is one conversion output: a string or float for scalar inputs, a
// slice of either for slice inputs. Which it holds follows from the output
// format and the input shape.
type Result struct {
	kind resultKind
	s    string
	f    float64
	ss   []string
	fs   []float64
}

// IsSlice reports whether the result holds a slice.
func (r Result) IsSlice() bool { return r.kind == resStrings || r.kind == resFloats }

// String returns the scalar string value, if that is what the result holds.
func (r Result) String() (string, bool) { return r.s, r.kind == resString }

// Float returns the scalar float value, if that is what the result holds.
func (r Result) Float() (float64, bool) { return r.f, r.kind == resFloat }

// Strings returns the string slice value, if that is what the result holds.
func (r Result) Strings() ([]string, bool) { return r.ss, r.kind == resStrings }

// Floats returns the float slice value, if that is what the result holds.
func (r Result) Floats() ([]float64, bool) { return r.fs, r.kind == resFloats }

// formatFloat prints a float with the fewest digits that round-trip,
// switching to exponent notation only for very small or very large
// magnitudes. Values formatted this way still match the catalog's float
// detection pattern.
func formatFloat(v float64) string {
	if abs := math.Abs(v); v == 0 || (abs >= 1e-4 && abs < 1e16) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// canonicalize reduces a raw input to its detection form: anything that
// parses as a float is reprinted at full precision, with a trailing .0 on
// integral values so they read the way a float prints. Everything else
// passes through unchanged.
func canonicalize(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	s := formatFloat(v)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// convertScalar runs one value through the conversion pipeline: detect or
// force the input format, resolve systems, apply the input format's pre
// transform, convert, apply the output format's post transform. It returns
// the output string and the output descriptor.
func (r *Registry) convertScalar(raw string, opts ConvertOptions) (string, *Descriptor, error) {
	if opts.FormatOut == "" {
		opts.FormatOut = "secs"
	}
	raw = canonicalize(raw)

	din, err := r.match(raw, opts.FormatIn)
	if err != nil {
		return "", nil, err
	}
	sysIn := din.Sys
	if opts.SystemIn != "" {
		code, ok := timeSystems[opts.SystemIn]
		if !ok {
			return "", nil, fmt.Errorf("%w '%s'", ErrInputSystem, opts.SystemIn)
		}
		sysIn = code
	}

	dout, ok := r.byName[opts.FormatOut]
	if !ok {
		return "", nil, fmt.Errorf("%w '%s'", ErrOutputFormat, opts.FormatOut)
	}
	sysOut := dout.Sys
	if opts.SystemOut != "" {
		code, ok := timeSystems[opts.SystemOut]
		if !ok {
			return "", nil, fmt.Errorf("%w '%s'", ErrOutputSystem, opts.SystemOut)
		}
		sysOut = code
	}

	val := raw
	if din.pre != nil {
		if val, err = din.pre(r, val); err != nil {
			return "", nil, err
		}
	}
	out, err := axtime.ConvertTime(val, sysIn, din.Fmt, sysOut, dout.Fmt)
	if err != nil {
		return "", nil, fmt.Errorf("%w '%s': %v", ErrInputValue, raw, err)
	}
	if dout.post != nil {
		if out, err = dout.post(r, out); err != nil {
			return "", nil, err
		}
	}
	return out, dout, nil
}

func (r *Registry) convertOne(raw string, opts ConvertOptions) (Result, error) {
	out, dout, err := r.convertScalar(raw, opts)
	if err != nil {
		return Result{}, err
	}
	return typedResult(out, dout.Numeric)
}

func typedResult(out string, numeric bool) (Result, error) {
	if !numeric {
		return Result{kind: resString, s: out}, nil
	}
	v, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return Result{}, fmt.Errorf("%w '%s'", ErrInputValue, out)
	}
	return Result{kind: resFloat, f: v}, nil
}

// Convert converts a single time value. The current-time marker is
// converted as a unix time read from the registry clock. Slice inputs are
// rejected; use ConvertMany.
func (r *Registry) Convert(in Input, opts ConvertOptions) (Result, error) {
	switch in.kind {
	case kindNow:
		opts.FormatIn = "unix"
		opts.SystemIn = ""
		return r.convertOne(formatFloat(r.nowUnix()), opts)
	case kindString:
		if opts.FormatIn == "" {
			opts.FormatIn = in.fmtHint
		}
		return r.convertOne(in.s, opts)
	case kindFloat:
		if opts.FormatIn == "" {
			opts.FormatIn = in.fmtHint
		}
		return r.convertOne(formatFloat(in.f), opts)
	}
	return Result{}, fmt.Errorf("%w: slice input requires ConvertMany", ErrInputValue)
}

// ConvertMany converts element-wise over slice inputs, preserving length
// and order; scalar inputs (including the current-time marker) take the
// scalar path.
func (r *Registry) ConvertMany(in Input, opts ConvertOptions) (Result, error) {
	var raws []string
	switch in.kind {
	case kindStrings:
		raws = in.ss
	case kindFloats:
		raws = make([]string, len(in.fs))
		for i, v := range in.fs {
			raws[i] = formatFloat(v)
		}
	default:
		return r.Convert(in, opts)
	}
	if opts.FormatIn == "" {
		opts.FormatIn = in.fmtHint
	}

	outs := make([]string, len(raws))
	numeric := false
	for i, raw := range raws {
		out, dout, err := r.convertScalar(raw, opts)
		if err != nil {
			return Result{}, err
		}
		outs[i] = out
		numeric = dout.Numeric
	}
	if len(raws) == 0 {
		name := opts.FormatOut
		if name == "" {
			name = "secs"
		}
		dout, ok := r.byName[name]
		if !ok {
			return Result{}, fmt.Errorf("%w '%s'", ErrOutputFormat, name)
		}
		numeric = dout.Numeric
	}
	return typedSliceResult(outs, numeric)
}

func typedSliceResult(outs []string, numeric bool) (Result, error) {
	if !numeric {
		return Result{kind: resStrings, ss: outs}, nil
	}
	fs := make([]float64, len(outs))
	for i, out := range outs {
		v, err := strconv.ParseFloat(out, 64)
		if err != nil {
			return Result{}, fmt.Errorf("%w '%s'", ErrInputValue, out)
		}
		fs[i] = v
	}
	return Result{kind: resFloats, fs: fs}, nil
}

// fastDescriptor resolves a fast-path format name. Only formats with a
// fixed element type qualify.
func (r *Registry) fastDescriptor(name string, sentinel error) (*Descriptor, error) {
	if d, ok := r.byName[name]; ok && d.Dtype != "" {
		return d, nil
	}
	var allowed []string
	for _, d := range r.formats {
		if d.Dtype != "" {
			allowed = append(allowed, d.Name)
		}
	}
	return nil, fmt.Errorf("%w: format '%s' is not an allowed value %v", sentinel, name, allowed)
}

// ConvertVals converts between two fixed-element-type formats with no
// format detection, no transforms, and no per-element validation. It runs
// much faster than Convert; invalid inputs give unpredictable results. The
// result has the shape of the input.
func (r *Registry) ConvertVals(in Input, formatIn, formatOut string) (Result, error) {
	din, err := r.fastDescriptor(formatIn, ErrInputFormat)
	if err != nil {
		return Result{}, err
	}
	dout, err := r.fastDescriptor(formatOut, ErrOutputFormat)
	if err != nil {
		return Result{}, err
	}

	conv := func(raw string) (string, error) {
		return axtime.ConvertTime(raw, din.Sys, din.Fmt, dout.Sys, dout.Fmt)
	}
	numeric := dout.Dtype == "float64"

	switch in.kind {
	case kindString:
		out, err := conv(in.s)
		if err != nil {
			return Result{}, err
		}
		return typedResult(out, numeric)
	case kindFloat:
		out, err := conv(formatFloat(in.f))
		if err != nil {
			return Result{}, err
		}
		return typedResult(out, numeric)
	case kindStrings:
		outs := make([]string, len(in.ss))
		for i, s := range in.ss {
			if outs[i], err = conv(s); err != nil {
				return Result{}, err
			}
		}
		return typedSliceResult(outs, numeric)
	case kindFloats:
		outs := make([]string, len(in.fs))
		for i, v := range in.fs {
			if outs[i], err = conv(formatFloat(v)); err != nil {
				return Result{}, err
			}
		}
		return typedSliceResult(outs, numeric)
	}
	return Result{}, fmt.Errorf("%w: fast-path conversion needs an explicit value", ErrInputValue)
}

// DateToSecs converts date strings to mission seconds on the fast path.
func (r *Registry) DateToSecs(in Input) (Result, error) {
	return r.ConvertVals(in, "date", "secs")
}

// SecsToDate converts mission seconds to date strings on the fast path.
func (r *Registry) SecsToDate(in Input) (Result, error) {
	return r.ConvertVals(in, "secs", "date")
}

// Convert converts a single time value using the default registry.
func Convert(in Input, opts ConvertOptions) (Result, error) {
	return Default().Convert(in, opts)
}

// ConvertMany converts scalar or slice inputs using the default registry.
func ConvertMany(in Input, opts ConvertOptions) (Result, error) {
	return Default().ConvertMany(in, opts)
}

// ConvertVals converts on the unvalidated fast path of the default registry.
func ConvertVals(in Input, formatIn, formatOut string) (Result, error) {
	return Default().ConvertVals(in, formatIn, formatOut)
}

// DateToSecs converts date strings to mission seconds on the fast path of
// the default registry.
func DateToSecs(in Input) (Result, error) {
	return Default().DateToSecs(in)
}

// SecsToDate converts mission seconds to date strings on the fast path of
// the default registry.
func SecsToDate(in Input) (Result, error) {
	return Default().SecsToDate(in)
}
