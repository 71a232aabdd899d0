package axtime

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// leapFileName is the IERS leap-second file consulted under TIMING_DIR or
// ASC_DATA when present.
const leapFileName = "tai-utc.dat"

// leapTable holds the post-1972 leap-second steps: mjd[i] is the UTC day the
// step secs[i] takes effect.
type leapTable struct {
	mjd  []int64
	secs []float64
}

// at returns the leap-second count in effect at MJD(TT) mjdi+mjdf, and
// whether that instant falls inside a leap second.
func (t leapTable) at(mjdi int64, mjdf float64) (float64, bool) {
	i := len(t.mjd) - 1
	x := float64(mjdi) + mjdf - tai2tt*sec2day
	j := int64(x)
	for j < t.mjd[i] && i > 0 {
		i--
	}
	inLeap := false
	if x-t.secs[i]*sec2day < float64(t.mjd[i]) && i > 0 {
		i--
		if float64(t.mjd[i+1])-x <= sec2day {
			inLeap = true
		}
	}
	return t.secs[i], inLeap
}

// builtinLeaps is the compiled-in table, 1972 through 2017 (leap seconds 10
// through 37). Used whenever no tai-utc.dat is available.
func builtinLeaps() leapTable {
	return leapTable{
		mjd: []int64{
			41317, 41499, 41683, 42048, 42413, 42778, 43144, 43509, 43874,
			44239, 44786, 45151, 45516, 46247, 47161, 47892, 48257, 48804,
			49169, 49534, 50083, 50630, 51179, 53736, 54832, 56109, 57204,
			57754,
		},
		secs: []float64{
			10, 11, 12, 13, 14, 15, 16, 17, 18,
			19, 20, 21, 22, 23, 24, 25, 26, 27,
			28, 29, 30, 31, 32, 33, 34, 35, 36,
			37,
		},
	}
}

var (
	leapMu   sync.RWMutex
	leapOnce sync.Once
	leapTbl  leapTable
)

// currentLeaps returns the active leap-second table, loading tai-utc.dat
// from TIMING_DIR or ASC_DATA on first use if one is present.
func currentLeaps() leapTable {
	leapOnce.Do(func() {
		leapTbl = builtinLeaps()
		for _, env := range []string{"TIMING_DIR", "ASC_DATA"} {
			dir := os.Getenv(env)
			if dir == "" {
				continue
			}
			if err := LoadLeapSecondsFile(filepath.Join(dir, leapFileName)); err == nil {
				break
			}
		}
	})
	leapMu.RLock()
	defer leapMu.RUnlock()
	return leapTbl
}

// leapLine matches one post-1972 entry of tai-utc.dat, e.g.
//
//	1972 JAN  1 =JD 2441317.5  TAI-UTC=  10.0       S + (MJD - 41317.) X 0.0      S
var leapLine = regexp.MustCompile(`^\s*(\d{4})\s+[A-Z]{3}\s+1\s+=JD\s+24(\d{5})\.5\s+TAI-UTC=\s*(\d+(?:\.\d*)?)`)

// LoadLeapSecondsFile replaces the leap-second table with the contents of a
// tai-utc.dat file. Entries at or before 1970 are skipped. The current table
// is kept unchanged on any error or if the file yields fewer entries than
// are already known.
func LoadLeapSecondsFile(path string) error {
	leapOnce.Do(func() { leapTbl = builtinLeaps() })

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening leap-second file: %w", err)
	}
	defer f.Close()

	var tbl leapTable
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m := leapLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		if year <= 1970 {
			continue
		}
		mjd, _ := strconv.ParseInt(m[2], 10, 64)
		secs, _ := strconv.ParseFloat(m[3], 64)
		tbl.mjd = append(tbl.mjd, mjd)
		tbl.secs = append(tbl.secs, secs)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading leap-second file: %w", err)
	}

	leapMu.Lock()
	defer leapMu.Unlock()
	if len(tbl.mjd) < len(leapTbl.mjd) {
		return fmt.Errorf("leap-second file %s has %d entries, fewer than the %d already loaded",
			path, len(tbl.mjd), len(leapTbl.mjd))
	}
	leapTbl = tbl
	return nil
}

// LeapSeconds returns the UTC MJDs at which leap seconds take effect and the
// cumulative TAI-UTC offset at each, in step order.
func LeapSeconds() ([]int64, []float64) {
	tbl := currentLeaps()
	mjd := make([]int64, len(tbl.mjd))
	secs := make([]float64, len(tbl.secs))
	copy(mjd, tbl.mjd)
	copy(secs, tbl.secs)
	return mjd, secs
}

// Watcher reloads the leap-second table whenever the watched tai-utc.dat
// file changes. Long-running hosts use this to pick up newly announced leap
// seconds without restarting.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}

	// Reloaded receives one value per successful table reload.
	Reloaded <-chan struct{}
	reloaded chan struct{}
}

// WatchLeapSeconds loads path immediately and then watches it for changes.
func WatchLeapSeconds(path string) (*Watcher, error) {
	if err := LoadLeapSecondsFile(path); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors and fetch scripts typically replace the
	// file, which drops a watch on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	w := &Watcher{
		path:     path,
		watcher:  fw,
		done:     make(chan struct{}),
		Reloaded: ch,
		reloaded: ch,
	}
	go w.loop()
	return w, nil
}

// Stop closes the watcher.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.reloaded)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: a rewrite arrives as a burst of events.
	const debounce = 100 * time.Millisecond
	var pending bool
	var last time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != leapFileName && event.Name != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				last = time.Now()
			}

		case <-ticker.C:
			if !pending || time.Since(last) < debounce {
				continue
			}
			pending = false
			if err := LoadLeapSecondsFile(w.path); err == nil {
				select {
				case w.reloaded <- struct{}{}:
				default:
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the current table stays in effect.
		}
	}
}
