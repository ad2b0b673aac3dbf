// Package zoneinfo resolves wall-clock offsets, daylight saving rules
// and leap-second corrections for a geographic zone from its compiled
// tzfile(5) data.
//
// A ZoneInfo is built once from a raw TZif buffer and is immutable
// afterwards, so it may be shared between goroutines without locking.
// Obtaining the buffer from an installed zoneinfo tree is the job of
// package tzdir; this package only ever sees ready bytes.
package zoneinfo

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ngrash/go-zoneinfo/tzif"
)

// Indicator describes how a transition time was specified in the
// source file.
type Indicator uint8

const (
	// WallClock marks transition times specified as wall-clock time.
	WallClock Indicator = iota
	// Standard marks transition times specified as standard time.
	Standard
	// Local marks transition times specified as local time.
	Local
	// Universal marks transition times specified as UT.
	Universal
)

func (i Indicator) String() string {
	switch i {
	case WallClock:
		return "wall clock"
	case Standard:
		return "standard"
	case Local:
		return "local"
	case Universal:
		return "universal"
	default:
		return fmt.Sprintf("<undefined indicator (%d)>", uint8(i))
	}
}

// LocalTimeType is a local time type of a zone with its designation
// materialized from the designation pool.
type LocalTimeType struct {
	// UTOffset is the number of seconds to add to UT to determine
	// local time.
	UTOffset int32
	// DST indicates whether this type is daylight saving time.
	DST bool
	// Abbreviation is the time zone designation, e.g. "CET".
	Abbreviation string
}

// Record is the information associated with one transition: the local
// time type that becomes active plus the indicators describing how the
// transition time was specified.
type Record struct {
	// UTOffset is the offset to UT in seconds.
	UTOffset int32
	// DST indicates daylight saving time.
	DST bool
	// Abbreviation is the time zone designation.
	Abbreviation string
	// StandardWall tells whether the transition time was specified as
	// standard or wall-clock time.
	StandardWall Indicator
	// UTLocal tells whether the transition time was specified as
	// universal or local time.
	UTLocal Indicator
}

// Transition pairs a transition instant, in seconds since the Unix
// epoch, with the record that becomes active at that instant.
type Transition struct {
	Time int64
	Record
}

// LeapSecond is a leap-second correction: the cumulative number of
// correction seconds in effect on or after Time.
type LeapSecond struct {
	Time int64
	Corr int32
}

// ZoneInfo holds the assembled tables of a single zone.
// It is immutable once built by Load.
type ZoneInfo struct {
	version         tzif.Version
	transitionTimes []int64
	transitionTypes []uint8
	types           []LocalTimeType
	leaps           []LeapSecond
	stdWall         []bool
	utLocal         []bool
	tzString        string
}

// Load builds a ZoneInfo from a raw TZif buffer.
//
// For version 2+ files the 64-bit data block is used. The historical
// reader selected the block by the host's word size instead; that rule
// was a workaround for 32-bit glibc behavior and is deliberately not
// reproduced, since the wide block yields identical results where the
// legacy one is defined at all.
//
// A file with no transitions and exactly one local time type describes
// a fixed-offset zone. Load normalizes it by synthesizing a single
// transition to that type at the minimum representable instant, so the
// query API behaves uniformly.
func Load(buf []byte) (*ZoneInfo, error) {
	f, err := tzif.Decode(buf)
	if err != nil {
		return nil, err
	}

	body := f.V1Body
	if f.Version != tzif.V1 {
		body = f.V2Body
	}

	z := &ZoneInfo{
		version:  f.Version,
		tzString: string(f.Footer.TZString),
	}

	z.types = make([]LocalTimeType, len(body.LocalTimeTypeRecords))
	for i, rec := range body.LocalTimeTypeRecords {
		abbr, err := body.Designation(rec.Idx)
		if err != nil {
			return nil, fmt.Errorf("local time type %d: %w", i, err)
		}
		z.types[i] = LocalTimeType{
			UTOffset:     rec.Utoff,
			DST:          rec.Dst,
			Abbreviation: abbr,
		}
	}

	z.transitionTimes = append(z.transitionTimes, body.TransitionTimes...)
	z.transitionTypes = append(z.transitionTypes, body.TransitionTypes...)

	// Some distributions ship fixed-offset zones as a single time type
	// without any transition. Synthesize one so lookups resolve it.
	if len(z.transitionTimes) == 0 && len(z.types) == 1 {
		z.transitionTimes = []int64{math.MinInt64}
		z.transitionTypes = []uint8{0}
	}

	z.leaps = make([]LeapSecond, len(body.LeapSecondRecords))
	for i, rec := range body.LeapSecondRecords {
		z.leaps[i] = LeapSecond{Time: rec.Occur, Corr: rec.Corr}
	}

	z.stdWall = append(z.stdWall, body.StandardWallIndicators...)
	z.utLocal = append(z.utLocal, body.UTLocalIndicators...)

	return z, nil
}

// Version returns the format version of the file the zone was loaded from.
func (z *ZoneInfo) Version() tzif.Version {
	return z.version
}

// record resolves the local time type at idx together with its
// indicators. Indicator entries beyond the stored arrays default to
// wall-clock respectively local time, as prescribed for files with
// isstdcnt or isutcnt of zero.
func (z *ZoneInfo) record(idx uint8) Record {
	t := z.types[idx]
	r := Record{
		UTOffset:     t.UTOffset,
		DST:          t.DST,
		Abbreviation: t.Abbreviation,
		StandardWall: WallClock,
		UTLocal:      Local,
	}
	if int(idx) < len(z.stdWall) && z.stdWall[idx] {
		r.StandardWall = Standard
	}
	if int(idx) < len(z.utLocal) && z.utLocal[idx] {
		r.UTLocal = Universal
	}
	return r
}

// Transitions returns all transitions of the zone ordered by instant.
// The first entry of a fixed-offset zone carries the synthesized
// minimum instant, which is not meaningful as a timestamp.
//
// The slice is rebuilt on every call; callers are free to keep or
// modify it.
func (z *ZoneInfo) Transitions() []Transition {
	transitions := make([]Transition, len(z.transitionTimes))
	for i, t := range z.transitionTimes {
		transitions[i] = Transition{Time: t, Record: z.record(z.transitionTypes[i])}
	}
	return transitions
}

// LeapSecondTransitions returns the leap-second corrections of the
// zone ordered by instant.
func (z *ZoneInfo) LeapSecondTransitions() []LeapSecond {
	leaps := make([]LeapSecond, len(z.leaps))
	copy(leaps, z.leaps)
	return leaps
}

// ActualZoneInfo returns the transition in effect at the given instant,
// i.e. the one with the greatest time strictly before timestamp.
// It reports false if the instant precedes every transition.
func (z *ZoneInfo) ActualZoneInfo(timestamp int64) (Transition, bool) {
	i := sort.Search(len(z.transitionTimes), func(i int) bool {
		return z.transitionTimes[i] >= timestamp
	})
	if i == 0 {
		return Transition{}, false
	}
	return Transition{Time: z.transitionTimes[i-1], Record: z.record(z.transitionTypes[i-1])}, true
}

// NextTransitionTime returns the earliest transition at or after the
// given instant. It reports false if no such transition exists, which
// is a normal outcome for zones without future rule changes.
func (z *ZoneInfo) NextTransitionTime(timestamp int64) (Transition, bool) {
	i := sort.Search(len(z.transitionTimes), func(i int) bool {
		return z.transitionTimes[i] >= timestamp
	})
	if i == len(z.transitionTimes) {
		return Transition{}, false
	}
	return Transition{Time: z.transitionTimes[i], Record: z.record(z.transitionTypes[i])}, true
}

// DSTSpecifier returns the POSIX TZ rule string from the file footer
// with surrounding whitespace trimmed. It is empty for version 1 files
// and for files without a rule.
func (z *ZoneInfo) DSTSpecifier() string {
	return strings.TrimSpace(z.tzString)
}
