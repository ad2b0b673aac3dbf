package zoneinfo

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-zoneinfo/internal/unixtime"
	"github.com/ngrash/go-zoneinfo/tzif"
)

func encode(t *testing.T, f tzif.File) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Encode(&buf))
	return buf.Bytes()
}

// v1File builds a version 1 file around a single data block.
func v1File(h tzif.Header, b tzif.Body) tzif.File {
	h.Version = tzif.V1
	return tzif.File{Version: tzif.V1, V1Header: h, V1Body: b}
}

// v2File builds a version 2 file carrying the same tables in both blocks.
func v2File(h tzif.Header, b tzif.Body, tzString string) tzif.File {
	h.Version = tzif.V2
	return tzif.File{
		Version:  tzif.V2,
		V1Header: h,
		V1Body:   b,
		V2Header: h,
		V2Body:   b,
		Footer:   tzif.Footer{TZString: []byte(tzString)},
	}
}

func TestLoad_EndToEnd(t *testing.T) {
	buf := encode(t, v1File(
		tzif.Header{Timecnt: 1, Typecnt: 1, Charcnt: 4},
		tzif.Body{
			TransitionTimes:      []int64{0},
			TransitionTypes:      []uint8{0},
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 3600, Dst: false, Idx: 0}},
			Designations:         []byte("CET\x00"),
		},
	))

	info, err := Load(buf)
	require.NoError(t, err)

	actual, ok := info.ActualZoneInfo(500)
	require.True(t, ok)
	require.Equal(t, int64(0), actual.Time)
	require.Equal(t, int32(3600), actual.UTOffset)
	require.False(t, actual.DST)
	require.Equal(t, "CET", actual.Abbreviation)
	require.Equal(t, WallClock, actual.StandardWall)
	require.Equal(t, Local, actual.UTLocal)

	require.Equal(t, "", info.DSTSpecifier())
	require.Empty(t, info.LeapSecondTransitions())
}

func TestLoad_BadMagic(t *testing.T) {
	_, err := Load([]byte("not a tzfile at all"))
	require.ErrorIs(t, err, tzif.ErrBadMagic)
}

func TestLoad_FixedOffsetZone(t *testing.T) {
	// No transitions and a single local time type: some distributions
	// ship fixed-offset zones like this.
	buf := encode(t, v1File(
		tzif.Header{Typecnt: 1, Charcnt: 4},
		tzif.Body{
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 0, Dst: false, Idx: 0}},
			Designations:         []byte("UTC\x00"),
		},
	))

	info, err := Load(buf)
	require.NoError(t, err)

	transitions := info.Transitions()
	require.Len(t, transitions, 1)
	require.Equal(t, int64(math.MinInt64), transitions[0].Time)
	require.Equal(t, "UTC", transitions[0].Abbreviation)

	// Every instant resolves to the synthesized transition.
	for _, ts := range []int64{math.MinInt64 + 1, -5000, 0, math.MaxInt64} {
		actual, ok := info.ActualZoneInfo(ts)
		require.True(t, ok, "timestamp %d", ts)
		require.Equal(t, int64(math.MinInt64), actual.Time)
		require.Equal(t, int32(0), actual.UTOffset)
		require.False(t, actual.DST)
		require.Equal(t, "UTC", actual.Abbreviation)
	}

	// There is no next transition after the sentinel.
	_, ok := info.NextTransitionTime(0)
	require.False(t, ok)
}

func TestLoad_NoNormalizationWithMultipleTypes(t *testing.T) {
	// The sentinel is only synthesized for the single-type case.
	buf := encode(t, v1File(
		tzif.Header{Typecnt: 2, Charcnt: 8},
		tzif.Body{
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{
				{Utoff: 0, Dst: false, Idx: 0},
				{Utoff: 3600, Dst: true, Idx: 4},
			},
			Designations: []byte("UTC\x00BST\x00"),
		},
	))

	info, err := Load(buf)
	require.NoError(t, err)
	require.Empty(t, info.Transitions())

	_, ok := info.ActualZoneInfo(0)
	require.False(t, ok)
}

func TestLoad_PrefersWideBody(t *testing.T) {
	// Deliberately different designations per block to observe which
	// one Load picks.
	narrow := tzif.Body{
		TransitionTimes:      []int64{1000},
		TransitionTypes:      []uint8{0},
		LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 3600, Dst: false, Idx: 0}},
		Designations:         []byte("NRW\x00"),
	}
	wide := tzif.Body{
		TransitionTimes:      []int64{1000},
		TransitionTypes:      []uint8{0},
		LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 3600, Dst: false, Idx: 0}},
		Designations:         []byte("WID\x00"),
	}
	h := tzif.Header{Version: tzif.V2, Timecnt: 1, Typecnt: 1, Charcnt: 4}
	f := tzif.File{
		Version:  tzif.V2,
		V1Header: h,
		V1Body:   narrow,
		V2Header: h,
		V2Body:   wide,
	}

	info, err := Load(encode(t, f))
	require.NoError(t, err)

	actual, ok := info.ActualZoneInfo(2000)
	require.True(t, ok)
	require.Equal(t, "WID", actual.Abbreviation)
}

func TestLoad_LegacyAndWideBodiesAgree(t *testing.T) {
	// A well-formed v2 file reports the same zone data from both
	// blocks as long as its timestamps fit 32 bits.
	body := tzif.Body{
		TransitionTimes:      []int64{1000},
		TransitionTypes:      []uint8{0},
		LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 7200, Dst: true, Idx: 0}},
		Designations:         []byte("CEST\x00"),
	}
	buf := encode(t, v2File(tzif.Header{Timecnt: 1, Typecnt: 1, Charcnt: 5}, body, ""))

	f, err := tzif.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, f.V1Body.TransitionTimes, f.V2Body.TransitionTimes)
	require.Equal(t, f.V1Body.LocalTimeTypeRecords, f.V2Body.LocalTimeTypeRecords)

	legacyAbbr, err := f.V1Body.Designation(0)
	require.NoError(t, err)
	wideAbbr, err := f.V2Body.Designation(0)
	require.NoError(t, err)
	require.Equal(t, legacyAbbr, wideAbbr)

	info, err := Load(buf)
	require.NoError(t, err)
	actual, ok := info.ActualZoneInfo(1001)
	require.True(t, ok)
	require.Equal(t, int32(7200), actual.UTOffset)
	require.True(t, actual.DST)
	require.Equal(t, "CEST", actual.Abbreviation)
}

func dualTypeZone(t *testing.T) *ZoneInfo {
	t.Helper()
	buf := encode(t, v1File(
		tzif.Header{Timecnt: 2, Typecnt: 2, Charcnt: 9},
		tzif.Body{
			TransitionTimes: []int64{1000, 2000},
			TransitionTypes: []uint8{0, 1},
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{
				{Utoff: 3600, Dst: false, Idx: 0},
				{Utoff: 7200, Dst: true, Idx: 4},
			},
			Designations: []byte("CET\x00CEST\x00"),
		},
	))
	info, err := Load(buf)
	require.NoError(t, err)
	return info
}

func TestActualZoneInfo_Boundaries(t *testing.T) {
	info := dualTypeZone(t)

	// Before and at the first transition nothing is in effect yet.
	_, ok := info.ActualZoneInfo(999)
	require.False(t, ok)
	_, ok = info.ActualZoneInfo(1000)
	require.False(t, ok)

	actual, ok := info.ActualZoneInfo(1001)
	require.True(t, ok)
	require.Equal(t, int64(1000), actual.Time)
	require.Equal(t, "CET", actual.Abbreviation)

	// At the exact instant of a later transition the previous rule
	// still applies; just past it the new one does.
	actual, ok = info.ActualZoneInfo(2000)
	require.True(t, ok)
	require.Equal(t, int64(1000), actual.Time)

	actual, ok = info.ActualZoneInfo(2001)
	require.True(t, ok)
	require.Equal(t, int64(2000), actual.Time)
	require.Equal(t, "CEST", actual.Abbreviation)
	require.True(t, actual.DST)
}

func TestNextTransitionTime(t *testing.T) {
	info := dualTypeZone(t)

	next, ok := info.NextTransitionTime(999)
	require.True(t, ok)
	require.Equal(t, int64(1000), next.Time)

	// Inclusive lower bound: an instant exactly at a transition
	// reports that transition.
	next, ok = info.NextTransitionTime(2000)
	require.True(t, ok)
	require.Equal(t, int64(2000), next.Time)

	// Just before transition T the next change is T itself.
	next, ok = info.NextTransitionTime(1999)
	require.True(t, ok)
	require.Equal(t, int64(2000), next.Time)
	require.Equal(t, "CEST", next.Abbreviation)

	// Past the last transition there is no upcoming change.
	_, ok = info.NextTransitionTime(2001)
	require.False(t, ok)
}

func TestActualZoneInfo_Monotonic(t *testing.T) {
	info := dualTypeZone(t)

	var last int64 = math.MinInt64
	for ts := int64(1001); ts <= 3000; ts += 125 {
		actual, ok := info.ActualZoneInfo(ts)
		require.True(t, ok, "timestamp %d", ts)
		require.GreaterOrEqual(t, actual.Time, last, "timestamp %d", ts)
		require.Less(t, actual.Time, ts, "timestamp %d", ts)
		last = actual.Time
	}

	// NextTransitionTime never reports an instant before the query.
	for ts := int64(0); ts <= 2000; ts += 100 {
		next, ok := info.NextTransitionTime(ts)
		require.True(t, ok, "timestamp %d", ts)
		require.GreaterOrEqual(t, next.Time, ts, "timestamp %d", ts)
	}
}

func TestTransitions(t *testing.T) {
	info := dualTypeZone(t)

	transitions := info.Transitions()
	require.Len(t, transitions, 2)
	require.Equal(t, int64(1000), transitions[0].Time)
	require.Equal(t, "CET", transitions[0].Abbreviation)
	require.Equal(t, int64(2000), transitions[1].Time)
	require.Equal(t, "CEST", transitions[1].Abbreviation)

	// The projection is rebuilt per call, so callers may modify it.
	transitions[0].Time = -1
	require.Equal(t, int64(1000), info.Transitions()[0].Time)
}

func TestIndicators(t *testing.T) {
	buf := encode(t, v1File(
		tzif.Header{Isutcnt: 2, Isstdcnt: 2, Timecnt: 2, Typecnt: 2, Charcnt: 9},
		tzif.Body{
			TransitionTimes: []int64{1000, 2000},
			TransitionTypes: []uint8{0, 1},
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{
				{Utoff: 3600, Dst: false, Idx: 0},
				{Utoff: 7200, Dst: true, Idx: 4},
			},
			Designations:           []byte("CET\x00CEST\x00"),
			StandardWallIndicators: []bool{false, true},
			UTLocalIndicators:      []bool{false, true},
		},
	))
	info, err := Load(buf)
	require.NoError(t, err)

	transitions := info.Transitions()
	require.Equal(t, WallClock, transitions[0].StandardWall)
	require.Equal(t, Local, transitions[0].UTLocal)
	require.Equal(t, Standard, transitions[1].StandardWall)
	require.Equal(t, Universal, transitions[1].UTLocal)
}

func TestIndicators_DefaultBeyondArrays(t *testing.T) {
	// isstdcnt and isutcnt of zero: all transition times are wall
	// clock and local time.
	info := dualTypeZone(t)
	for _, tr := range info.Transitions() {
		require.Equal(t, WallClock, tr.StandardWall)
		require.Equal(t, Local, tr.UTLocal)
	}
}

func TestLeapSecondTransitions(t *testing.T) {
	buf := encode(t, v1File(
		tzif.Header{Leapcnt: 2, Typecnt: 1, Charcnt: 4},
		tzif.Body{
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 0, Dst: false, Idx: 0}},
			Designations:         []byte("UTC\x00"),
			LeapSecondRecords: []tzif.LeapSecondRecord{
				{Occur: 78796800, Corr: 1},
				{Occur: 94694401, Corr: 2},
			},
		},
	))
	info, err := Load(buf)
	require.NoError(t, err)

	leaps := info.LeapSecondTransitions()
	require.Equal(t, []LeapSecond{
		{Time: 78796800, Corr: 1},
		{Time: 94694401, Corr: 2},
	}, leaps)
}

func TestDSTSpecifier(t *testing.T) {
	body := tzif.Body{
		TransitionTimes:      []int64{1000},
		TransitionTypes:      []uint8{0},
		LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{{Utoff: 3600, Dst: false, Idx: 0}},
		Designations:         []byte("CET\x00"),
	}
	h := tzif.Header{Timecnt: 1, Typecnt: 1, Charcnt: 4}

	buf := encode(t, v2File(h, body, " CET-1CEST,M3.5.0,M10.5.0/3 "))
	info, err := Load(buf)
	require.NoError(t, err)
	require.Equal(t, "CET-1CEST,M3.5.0,M10.5.0/3", info.DSTSpecifier())
	require.Equal(t, tzif.V2, info.Version())

	buf = encode(t, v1File(h, body))
	info, err = Load(buf)
	require.NoError(t, err)
	require.Equal(t, "", info.DSTSpecifier())
}

func TestLoad_CivilDateTransitions(t *testing.T) {
	// Central European DST change of 2024: CEST starts March 31
	// 01:00 UT and ends October 27 01:00 UT.
	start := unixtime.FromDateTime(2024, 3, 31, 1, 0, 0)
	end := unixtime.FromDateTime(2024, 10, 27, 1, 0, 0)
	require.Less(t, start, end)

	buf := encode(t, v2File(
		tzif.Header{Timecnt: 2, Typecnt: 2, Charcnt: 9},
		tzif.Body{
			TransitionTimes: []int64{start, end},
			TransitionTypes: []uint8{1, 0},
			LocalTimeTypeRecords: []tzif.LocalTimeTypeRecord{
				{Utoff: 3600, Dst: false, Idx: 0},
				{Utoff: 7200, Dst: true, Idx: 4},
			},
			Designations: []byte("CET\x00CEST\x00"),
		},
		"CET-1CEST,M3.5.0,M10.5.0/3",
	))
	info, err := Load(buf)
	require.NoError(t, err)

	// Midsummer is daylight saving time.
	midsummer := unixtime.FromDateTime(2024, 7, 1, 12, 0, 0)
	actual, ok := info.ActualZoneInfo(midsummer)
	require.True(t, ok)
	require.True(t, actual.DST)
	require.Equal(t, "CEST", actual.Abbreviation)

	// The next change after midsummer is the end of DST.
	next, ok := info.NextTransitionTime(midsummer)
	require.True(t, ok)
	require.Equal(t, end, next.Time)
	require.False(t, next.DST)
}
