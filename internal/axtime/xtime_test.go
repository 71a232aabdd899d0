package axtime

import (
	"fmt"
	"math"
	"strconv"
	"testing"
)

func TestConvertTimeGolden(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		val    string
		sysIn  string
		fmtIn  string
		sysOut string
		fmtOut string
		want   string
	}{
		{
			name: "fits tt to mission seconds",
			val:  "1999-07-23T23:56:00", sysIn: "t", fmtIn: "f3",
			sysOut: "m", fmtOut: "s",
			want: "49161360.000000000",
		},
		{
			name: "mission seconds to utc date",
			val:  "49161360", sysIn: "m", fmtIn: "s",
			sysOut: "u", fmtOut: "d3",
			want: "1999:204:23:54:55.816",
		},
		{
			name: "mjd tt to tai calendar date",
			val:  "53614.0", sysIn: "t", fmtIn: "m",
			sysOut: "a", fmtOut: "c3",
			want: "2005Aug31 at 23:59:27.816",
		},
		{
			name: "utc date to fits tt",
			val:  "1999:204:23:54:55.816", sysIn: "u", fmtIn: "d3",
			sysOut: "t", fmtOut: "f3",
			want: "1999-07-23T23:56:00.000",
		},
		{
			name: "bare fits date is midnight",
			val:  "2007-01-01", sysIn: "u", fmtIn: "f3",
			sysOut: "u", fmtOut: "d",
			want: "2007:001:00:00:00",
		},
		{
			name: "calendar date round trip",
			val:  "2005Aug31 at 23:59:27.816", sysIn: "a", fmtIn: "c3",
			sysOut: "t", fmtOut: "m",
			want: "53614.000000000",
		},
		{
			name: "elapsed day time identity",
			val:  "100:01:02:03", sysIn: "u", fmtIn: "n3",
			sysOut: "u", fmtOut: "n",
			want: "100:1:2:3.0000000000",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ConvertTime(tt.val, tt.sysIn, tt.fmtIn, tt.sysOut, tt.fmtOut)
			if err != nil {
				t.Fatalf("ConvertTime(%q) error: %v", tt.val, err)
			}
			if got != tt.want {
				t.Errorf("ConvertTime(%q) = %q, want %q", tt.val, got, tt.want)
			}
		})
	}
}

func TestConvertTimeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		val    string
		sysIn  string
		fmtIn  string
		sysOut string
		fmtOut string
	}{
		{"bad input system", "0", "x", "s", "u", "d3"},
		{"bad input format", "0", "m", "q", "u", "d3"},
		{"bad output system", "0", "m", "s", "x", "d3"},
		{"bad output format", "0", "m", "s", "u", "q"},
		{"malformed date", "1999:204:23", "u", "d3", "m", "s"},
		{"malformed number", "not-a-number", "m", "s", "u", "d3"},
		{"unknown month", "2005Xyz31 at 23:59:27", "u", "c3", "m", "s"},
		{"month out of range", "2007-13-01T00:00:00", "u", "f3", "m", "s"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ConvertTime(tt.val, tt.sysIn, tt.fmtIn, tt.sysOut, tt.fmtOut); err == nil {
				t.Errorf("ConvertTime(%q, %q, %q, %q, %q) succeeded, want error",
					tt.val, tt.sysIn, tt.fmtIn, tt.sysOut, tt.fmtOut)
			}
		})
	}
}

func secsOf(t *testing.T, date string) float64 {
	t.Helper()
	out, err := ConvertTime(date, "u", "d3", "m", "s")
	if err != nil {
		t.Fatalf("ConvertTime(%q) error: %v", date, err)
	}
	v, err := strconv.ParseFloat(out, 64)
	if err != nil {
		t.Fatalf("parsing %q: %v", out, err)
	}
	return v
}

func TestLeapSecondContinuity(t *testing.T) {
	// Mission seconds elapse uniformly through the 2015-06-30 leap second:
	// three wall-clock seconds plus the inserted second make four.
	before := secsOf(t, "2015:181:23:59:59")
	after := secsOf(t, "2015:182:00:00:02")
	if diff := after - before; math.Abs(diff-4.0) > 1e-5 {
		t.Errorf("seconds across leap = %v, want 4.0", diff)
	}
}

func TestDateInsideLeapSecond(t *testing.T) {
	// Half a second before 2015:182 UTC midnight falls inside the leap
	// second and renders with a seconds field of 60.
	midnight := secsOf(t, "2015:182:00:00:00")
	got, err := ConvertTime(fmt.Sprintf("%.9f", midnight-0.5), "m", "s", "u", "d3")
	if err != nil {
		t.Fatalf("ConvertTime error: %v", err)
	}
	if want := "2015:181:23:59:60.500"; got != want {
		t.Errorf("date inside leap second = %q, want %q", got, want)
	}
}

func TestParseSystem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want System
	}{
		{"m", MET}, {"met", MET},
		{"t", TT}, {"tt", TT},
		{"a", TAI}, {"ta", TAI}, {"tai", TAI},
		{"u", UTC}, {"utc", UTC}, {"UTC", UTC},
	}
	for _, tt := range tests {
		got, err := ParseSystem(tt.code)
		if err != nil {
			t.Errorf("ParseSystem(%q) error: %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSystem(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
	for _, code := range []string{"", "x", "q3"} {
		if _, err := ParseSystem(code); err == nil {
			t.Errorf("ParseSystem(%q) succeeded, want error", code)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    string
		want    Format
		wantDec int
	}{
		{"s", Secs, 0},
		{"j", JD, 0},
		{"m", MJD, 0},
		{"d", Date, 0},
		{"d3", Date, 3},
		{"c3", CalDate, 3},
		{"f6", FITS, 6},
		{"n3", NumDay, 3},
	}
	for _, tt := range tests {
		got, dec, err := ParseFormat(tt.code)
		if err != nil {
			t.Errorf("ParseFormat(%q) error: %v", tt.code, err)
			continue
		}
		if got != tt.want || dec != tt.wantDec {
			t.Errorf("ParseFormat(%q) = %v, %d, want %v, %d", tt.code, got, dec, tt.want, tt.wantDec)
		}
	}
	for _, code := range []string{"", "q", "dx"} {
		if _, _, err := ParseFormat(code); err == nil {
			t.Errorf("ParseFormat(%q) succeeded, want error", code)
		}
	}
}

func TestSecondsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, secs := range []float64{0, 1e8, 2e8, 49161360} {
		tm := FromSeconds(secs, MET)
		if got := tm.Seconds(MET); math.Abs(got-secs) > 1e-5 {
			t.Errorf("Seconds round trip of %v = %v", secs, got)
		}
		date := tm.DateString(UTC, Date, 3)
		back, err := FromDate(date, UTC)
		if err != nil {
			t.Fatalf("FromDate(%q) error: %v", date, err)
		}
		if got := back.Seconds(MET); math.Abs(got-secs) > 1e-2 {
			t.Errorf("date round trip of %v via %q = %v", secs, date, got)
		}
	}
}

func TestJDMJDRelation(t *testing.T) {
	t.Parallel()

	tm, err := FromFITS("1999-07-23T23:56:00", TT)
	if err != nil {
		t.Fatalf("FromFITS error: %v", err)
	}
	jd, mjd := tm.JD(UTC), tm.MJD(UTC)
	if math.Abs(jd-mjd-2400000.5) > 1e-9 {
		t.Errorf("JD - MJD = %v, want 2400000.5", jd-mjd)
	}
	if math.Abs(jd-2451383.496479352) > 1e-8 {
		t.Errorf("JD = %v, want 2451383.496479352", jd)
	}
}
