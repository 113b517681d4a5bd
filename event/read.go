// Public domain.

package event

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soniakeys/gammastat/sky"
)

// ReadList parses an event list in the gammastat columnar text format.
//
// The format is line oriented.  Header lines name a key and values:
//
//	obs 23523
//	pointing 83.633 22.514
//	start 53343.92234
//	stop 53343.94114
//
// Every other non-blank, non-comment line is one event:
//
//	mjd  ra-deg  dec-deg  energy-TeV
//
// Lines beginning with # are comments.  Malformed event lines are
// dropped without notice, the same policy the MPC observation splitter
// applies to unparseable records; header errors are fatal because the
// list is unusable without them.
func ReadList(r io.Reader) (*List, error) {
	l := &List{}
	sawPointing := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		switch f[0] {
		case "obs":
			if len(f) != 2 {
				return nil, fmt.Errorf("event: bad obs line: %q", line)
			}
			l.Obs = f[1]
			continue
		case "pointing":
			if len(f) != 3 {
				return nil, fmt.Errorf("event: bad pointing line: %q", line)
			}
			ra, err1 := strconv.ParseFloat(f[1], 64)
			dec, err2 := strconv.ParseFloat(f[2], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("event: bad pointing line: %q", line)
			}
			l.Pointing = sky.FromDeg(ra, dec)
			sawPointing = true
			continue
		case "start", "stop":
			if len(f) != 2 {
				return nil, fmt.Errorf("event: bad %s line: %q", f[0], line)
			}
			v, err := strconv.ParseFloat(f[1], 64)
			if err != nil {
				return nil, fmt.Errorf("event: bad %s line: %q", f[0], line)
			}
			if f[0] == "start" {
				l.Start = v
			} else {
				l.Stop = v
			}
			continue
		}
		if ev, ok := parseEvent(f); ok {
			l.Events = append(l.Events, ev)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if l.Obs == "" || !sawPointing || !(l.Stop > l.Start) {
		return nil, fmt.Errorf("event: incomplete header (obs %q, start %g, stop %g)",
			l.Obs, l.Start, l.Stop)
	}
	return l, nil
}

func parseEvent(f []string) (Event, bool) {
	if len(f) != 4 {
		return Event{}, false
	}
	var v [4]float64
	for i, s := range f {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Event{}, false
		}
		v[i] = x
	}
	if v[3] <= 0 {
		return Event{}, false
	}
	return Event{MJD: v[0], Coord: sky.FromDeg(v[1], v[2]), Energy: v[3]}, true
}

// Write emits the list in the same columnar format ReadList accepts.
func (l *List) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "obs %s\n", l.Obs)
	fmt.Fprintf(bw, "pointing %.6f %.6f\n", l.Pointing.RA.Deg(), l.Pointing.Dec.Deg())
	fmt.Fprintf(bw, "start %.8f\n", l.Start)
	fmt.Fprintf(bw, "stop %.8f\n", l.Stop)
	fmt.Fprintln(bw, "# mjd ra dec energy")
	for _, e := range l.Events {
		fmt.Fprintf(bw, "%.8f %.6f %.6f %.6g\n",
			e.MJD, e.Coord.RA.Deg(), e.Coord.Dec.Deg(), e.Energy)
	}
	return bw.Flush()
}
