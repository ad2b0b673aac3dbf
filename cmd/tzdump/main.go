// Command tzdump prints the transition history of a zone, loosely
// modeled after zdump(8) verbose output. Without an argument it dumps
// the local timezone of the host.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ngrash/go-zoneinfo/tzdir"
	"github.com/ngrash/go-zoneinfo/zoneinfo"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) > 1 {
		fmt.Println("Usage: tzdump [zone]")
		os.Exit(1)
	}

	var (
		name = tzdir.LocaltimeFile
		buf  []byte
		err  error
	)
	if len(args) == 1 {
		name = args[0]
		buf, err = tzdir.ReadZone(name)
	} else {
		buf, err = tzdir.ReadLocal()
	}
	if err != nil {
		fmt.Println("reading zone:", err)
		os.Exit(1)
	}

	info, err := zoneinfo.Load(buf)
	if err != nil {
		fmt.Println("loading zone:", err)
		os.Exit(1)
	}

	for _, t := range info.Transitions() {
		if t.Time == math.MinInt64 {
			// Synthesized entry of a fixed-offset zone, not printable as a date.
			fmt.Printf("%s  -infinity = %s isdst=%t gmtoff=%d\n", name, t.Abbreviation, t.DST, t.UTOffset)
			continue
		}
		ut := time.Unix(t.Time, 0).UTC()
		fmt.Printf("%s  %s UT = %s isdst=%t gmtoff=%d\n", name, ut.Format(time.ANSIC), t.Abbreviation, t.DST, t.UTOffset)
	}

	for _, l := range info.LeapSecondTransitions() {
		ut := time.Unix(l.Time, 0).UTC()
		fmt.Printf("%s  %s UT leapcorr=%d\n", name, ut.Format(time.ANSIC), l.Corr)
	}

	if spec := info.DSTSpecifier(); spec != "" {
		fmt.Printf("%s  rule %s\n", name, spec)
	}
}
