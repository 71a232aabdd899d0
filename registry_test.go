package chandratime

import (
	"strings"
	"testing"
)

func TestRegistryOrder(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"fits", "year_mon_day", "relday", "greta", "secs", "frac_year",
		"unix", "iso", "caldate", "date", "year_doy", "jd", "mjd",
		"numday", "plotdate",
	}
	got := reg.Formats()
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog string
		wantErr string
	}{
		{
			name:    "empty catalog",
			catalog: "",
			wantErr: "empty",
		},
		{
			name: "missing name",
			catalog: `[[format]]
pattern = '^x$'
sys = "u"
fmt = "d3"`,
			wantErr: "empty name",
		},
		{
			name: "duplicate name",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "u"
fmt = "d3"
[[format]]
name = "a"
pattern = '^y$'
sys = "u"
fmt = "d3"`,
			wantErr: "duplicate",
		},
		{
			name: "bad pattern",
			catalog: `[[format]]
name = "a"
pattern = '^(x$'
sys = "u"
fmt = "d3"`,
			wantErr: "bad pattern",
		},
		{
			name: "bad system code",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "q"
fmt = "d3"`,
			wantErr: "unknown time system",
		},
		{
			name: "bad format code",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "u"
fmt = "z9"`,
			wantErr: "unknown time format",
		},
		{
			name: "unknown transform",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "u"
fmt = "d3"
pre = "nope"`,
			wantErr: "unknown transform",
		},
		{
			name: "unknown guard",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "u"
fmt = "d3"
guard = "nope"`,
			wantErr: "unknown guard",
		},
		{
			name: "unknown dtype",
			catalog: `[[format]]
name = "a"
pattern = '^x$'
sys = "u"
fmt = "d3"
dtype = "complex"`,
			wantErr: "unknown dtype",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRegistryFromTOML([]byte(tt.catalog))
			if err == nil {
				t.Fatal("NewRegistryFromTOML succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultIsShared(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Error("Default() returned distinct registries")
	}
}
