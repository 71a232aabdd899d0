package axtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuiltinLeapTable(t *testing.T) {
	t.Parallel()

	tbl := builtinLeaps()
	if len(tbl.mjd) != len(tbl.secs) {
		t.Fatalf("table lengths differ: %d mjd, %d secs", len(tbl.mjd), len(tbl.secs))
	}
	for i := 1; i < len(tbl.mjd); i++ {
		if tbl.mjd[i] <= tbl.mjd[i-1] {
			t.Errorf("mjd[%d] = %d not increasing", i, tbl.mjd[i])
		}
		if tbl.secs[i] != tbl.secs[i-1]+1 {
			t.Errorf("secs[%d] = %v, want %v", i, tbl.secs[i], tbl.secs[i-1]+1)
		}
	}
	if first := tbl.mjd[0]; first != 41317 {
		t.Errorf("first entry mjd = %d, want 41317", first)
	}
	if last := tbl.mjd[len(tbl.mjd)-1]; last != 57754 {
		t.Errorf("last entry mjd = %d, want 57754", last)
	}
	if last := tbl.secs[len(tbl.secs)-1]; last != 37 {
		t.Errorf("last entry secs = %v, want 37", last)
	}
}

func TestLeapTableAt(t *testing.T) {
	t.Parallel()

	tbl := builtinLeaps()
	tests := []struct {
		mjd  int64
		want float64
	}{
		{41400, 10},
		{50814, 31}, // reference epoch
		{57000, 35},
		{57500, 36},
		{58000, 37},
	}
	for _, tt := range tests {
		got, inLeap := tbl.at(tt.mjd, 0.5)
		if got != tt.want {
			t.Errorf("at(%d) = %v, want %v", tt.mjd, got, tt.want)
		}
		if inLeap {
			t.Errorf("at(%d) reports in-leap for mid-day instant", tt.mjd)
		}
	}
}

// leapFileContent renders a table in tai-utc.dat form. Only the fields the
// parser reads are meaningful.
func leapFileContent(mjd []int64, secs []float64) string {
	var b strings.Builder
	for i := range mjd {
		fmt.Fprintf(&b, " %d JAN  1 =JD 24%05d.5  TAI-UTC=  %.1f       S + (MJD - 41317.) X 0.0      S\n",
			1972+i, mjd[i], secs[i])
	}
	return b.String()
}

func TestLoadAndWatchLeapSecondsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tai-utc.dat")
	baseMJD, baseSecs := LeapSeconds()
	last := len(baseMJD) - 1

	// A truncated file must not replace the table.
	short := leapFileContent(baseMJD[:2], baseSecs[:2])
	if err := os.WriteFile(path, []byte(short), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadLeapSecondsFile(path); err == nil {
		t.Fatal("loading truncated leap-second file succeeded, want error")
	}
	if mjd, _ := LeapSeconds(); len(mjd) != len(baseMJD) {
		t.Fatalf("table replaced by truncated file: %d entries", len(mjd))
	}

	// A full file replaces the table; start watching it.
	if err := os.WriteFile(path, []byte(leapFileContent(baseMJD, baseSecs)), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := WatchLeapSeconds(path)
	if err != nil {
		t.Fatalf("WatchLeapSeconds error: %v", err)
	}
	defer w.Stop()

	// Announce a far-future leap second and wait for the reload.
	grown := leapFileContent(
		append(append([]int64{}, baseMJD...), 88888),
		append(append([]float64{}, baseSecs...), baseSecs[last]+1),
	)
	if err := os.WriteFile(path, []byte(grown), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-w.Reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for leap-second table reload")
	}
	mjd, secs := LeapSeconds()
	if got := mjd[len(mjd)-1]; got != 88888 {
		t.Errorf("last mjd after reload = %d, want 88888", got)
	}
	if got := secs[len(secs)-1]; got != baseSecs[last]+1 {
		t.Errorf("last secs after reload = %v, want %v", got, baseSecs[last]+1)
	}
}
