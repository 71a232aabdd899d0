package chandratime

import (
	_ "embed"
	"fmt"
	"regexp"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/sot/chandra-time/internal/axtime"
)

//go:embed formats.toml
var formatsTOML []byte

// timeSystems maps public time system names to converter system codes.
var timeSystems = map[string]string{
	"met": "m",
	"tt":  "t",
	"tai": "a",
	"utc": "u",
}

// formatSpec is one row of the TOML format catalog.
type formatSpec struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
	Sys     string `toml:"sys"`
	Fmt     string `toml:"fmt"`
	Pre     string `toml:"pre"`
	Post    string `toml:"post"`
	Guard   string `toml:"guard"`
	Dtype   string `toml:"dtype"`
	Numeric bool   `toml:"numeric"`
}

type formatTable struct {
	Format []formatSpec `toml:"format"`
}

// Descriptor is one validated format entry: its detection pattern, the
// converter codes it maps to, and the transforms applied around conversion.
type Descriptor struct {
	Name    string
	Sys     string // converter system code: m, t, a, u
	Fmt     string // converter format code: s, j, m, d3, c3, f3, n3
	Dtype   string // element type for the fast path: "string", "float64", or ""
	Numeric bool   // conversion output parses to float64

	re    *regexp.Regexp
	pre   transformFunc
	post  transformFunc
	guard guardFunc
}

// Registry is an ordered catalog of time formats plus the conversion state
// shared by its transforms: the day-boundary convention for dates without a
// time of day, the clock used for "now" and relative-day inputs, and the
// per-year seconds cache for fractional-year conversion.
type Registry struct {
	formats []*Descriptor
	byName  map[string]*Descriptor

	dayStart string
	clock    func() time.Time

	mu       sync.Mutex
	yearSecs map[int][2]float64
}

// Option configures a Registry.
type Option func(*Registry)

// WithNoonDayStart makes dates without a time of day (year_doy,
// year_mon_day) resolve to 12:00:00 instead of 00:00:00.
func WithNoonDayStart() Option {
	return func(r *Registry) { r.dayStart = "12:00:00" }
}

// WithClock overrides the clock used for "now" and relative-day inputs.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) { r.clock = clock }
}

// NewRegistry builds a Registry from the built-in format catalog.
func NewRegistry(opts ...Option) (*Registry, error) {
	return NewRegistryFromTOML(formatsTOML, opts...)
}

// NewRegistryFromTOML builds a Registry from a TOML format catalog. Every
// entry must have a unique name, a compilable pattern, known system and
// format codes, and resolvable transform and guard names.
func NewRegistryFromTOML(data []byte, opts ...Option) (*Registry, error) {
	var table formatTable
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing format catalog: %w", err)
	}
	if len(table.Format) == 0 {
		return nil, fmt.Errorf("format catalog is empty")
	}

	r := &Registry{
		byName:   make(map[string]*Descriptor, len(table.Format)),
		dayStart: "00:00:00",
		clock:    time.Now,
		yearSecs: make(map[int][2]float64),
	}
	for _, spec := range table.Format {
		d, err := newDescriptor(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("format catalog: duplicate name %q", d.Name)
		}
		r.formats = append(r.formats, d)
		r.byName[d.Name] = d
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func newDescriptor(spec formatSpec) (*Descriptor, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("format catalog: entry with empty name")
	}
	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return nil, fmt.Errorf("format %q: bad pattern: %w", spec.Name, err)
	}
	if _, err := axtime.ParseSystem(spec.Sys); err != nil {
		return nil, fmt.Errorf("format %q: %w", spec.Name, err)
	}
	if _, _, err := axtime.ParseFormat(spec.Fmt); err != nil {
		return nil, fmt.Errorf("format %q: %w", spec.Name, err)
	}
	switch spec.Dtype {
	case "", "string", "float64":
	default:
		return nil, fmt.Errorf("format %q: unknown dtype %q", spec.Name, spec.Dtype)
	}

	d := &Descriptor{
		Name:    spec.Name,
		Sys:     spec.Sys,
		Fmt:     spec.Fmt,
		Dtype:   spec.Dtype,
		Numeric: spec.Numeric,
		re:      re,
	}
	if spec.Pre != "" {
		fn, ok := transforms[spec.Pre]
		if !ok {
			return nil, fmt.Errorf("format %q: unknown transform %q", spec.Name, spec.Pre)
		}
		d.pre = fn
	}
	if spec.Post != "" {
		fn, ok := transforms[spec.Post]
		if !ok {
			return nil, fmt.Errorf("format %q: unknown transform %q", spec.Name, spec.Post)
		}
		d.post = fn
	}
	if spec.Guard != "" {
		fn, ok := guards[spec.Guard]
		if !ok {
			return nil, fmt.Errorf("format %q: unknown guard %q", spec.Name, spec.Guard)
		}
		d.guard = fn
	}
	return d, nil
}

// Formats returns the catalog names in detection order.
func (r *Registry) Formats() []string {
	names := make([]string, len(r.formats))
	for i, d := range r.formats {
		names[i] = d.Name
	}
	return names
}

// match finds the format of a canonicalized input value. With forced
// non-empty, only the named format is tried; it must exist and match.
func (r *Registry) match(raw, forced string) (*Descriptor, error) {
	for _, d := range r.formats {
		if forced != "" && d.Name != forced {
			continue
		}
		if !d.re.MatchString(raw) {
			continue
		}
		if d.guard != nil && !d.guard(raw) {
			continue
		}
		return d, nil
	}
	if forced != "" {
		return nil, fmt.Errorf("%w '%s'", ErrInputFormat, forced)
	}
	return nil, fmt.Errorf("%w for value '%s'", ErrInputFormat, raw)
}

// nowUnix returns the registry clock as Unix seconds.
func (r *Registry) nowUnix() float64 {
	return float64(r.clock().UnixNano()) * 1e-9
}

// yearStartEnd returns the mission elapsed seconds at the start and end of
// a calendar year, cached per registry.
func (r *Registry) yearStartEnd(year int) ([2]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if se, ok := r.yearSecs[year]; ok {
		return se, nil
	}
	var se [2]float64
	for i, y := range [2]int{year, year + 1} {
		t, err := axtime.FromDate(fmt.Sprintf("%04d:001:00:00:00", y), axtime.UTC)
		if err != nil {
			return se, err
		}
		se[i] = t.Seconds(axtime.MET)
	}
	r.yearSecs[year] = se
	return se, nil
}

var (
	stdOnce sync.Once
	std     *Registry
)

// Default returns the shared package-level registry.
func Default() *Registry {
	stdOnce.Do(func() {
		r, err := NewRegistry()
		if err != nil {
			panic(fmt.Sprintf("chandratime: built-in format catalog is invalid: %v", err))
		}
		std = r
	})
	return std
}

// UseNoonDayStart sets the default registry so dates without a time of day
// resolve to 12:00:00 from now on. This affects all users of the package
// default registry; there is no way to revert.
func UseNoonDayStart() {
	Default().dayStart = "12:00:00"
}
