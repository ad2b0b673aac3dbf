// Package tzif decodes the TZif binary format described in RFC 8536
// and the tzfile(5) man page. Files carry a version 1 data block with
// 32-bit transition times and, from version 2 on, a second data block
// with 64-bit transition times followed by a footer with a POSIX TZ
// string.
//
// https://datatracker.ietf.org/doc/html/rfc8536
package tzif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// NOTE: All multi-octet integer values MUST be stored in network octet
// order format (high-order octet first, otherwise known as big-endian),
// with all bits significant.  Signed integer values MUST be represented
// using two's complement.
var order = binary.BigEndian

// Version represents the version of a TZif file.
// In V1, time values are 32bit (four octets). From V2 on, the file
// additionally carries a data block with 64bit (eight octet) time values
// and a footer.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", byte(v))
	}
}

const (
	// V1 represents a version 1 TZif file. It contains only the
	// version 1 header and data block.
	V1 Version = 0x00
	// V2 represents a version 2 TZif file. It contains the version 1
	// header and data block, a version 2 header and data block, and a
	// footer with a POSIX TZ string.
	V2 Version = 0x32 // '2'
	// V3 represents a version 3 TZif file. Like V2, but the TZ string
	// in the footer may use the extensions from Section 3.3.1 of RFC 8536.
	V3 Version = 0x33 // '3'
)

// wide reports whether files of this version carry a 64-bit data block
// and a footer after the legacy block.
func (v Version) wide() bool {
	return v == V2 || v == V3
}

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Errors reported for structurally broken files. Decode errors wrap
// these sentinels together with the position of the offending record.
var (
	ErrBadMagic                   = errors.New("tzif: invalid magic")
	ErrTypeIndexOutOfRange        = errors.New("tzif: transition type index out of range")
	ErrDesignationOutOfRange      = errors.New("tzif: time zone designation index out of range")
	ErrUnterminatedDesignation    = errors.New("tzif: unterminated time zone designation")
	ErrDesignationInvalidEncoding = errors.New("tzif: time zone designation is not ASCII")
	ErrTZStringInvalidEncoding    = errors.New("tzif: TZ string is not ASCII")
)

// TimeSize selects the octet width of time values in a data block.
type TimeSize int

const (
	// TimeSize32 is the four-octet time value width of version 1 data blocks.
	TimeSize32 TimeSize = 4
	// TimeSize64 is the eight-octet time value width of version 2+ data blocks.
	TimeSize64 TimeSize = 8
)

// readTime reads a single time value of this width from r.
func (s TimeSize) readTime(r *bytes.Reader) (int64, error) {
	switch s {
	case TimeSize32:
		v, err := readUint32(r)
		return int64(int32(v)), err
	case TimeSize64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int64(order.Uint64(buf[:])), nil
	default:
		return 0, fmt.Errorf("invalid time size: %d", int(s))
	}
}

// writeTime writes a single time value of this width to w.
// Values outside the 32-bit range are truncated when s is TimeSize32,
// mirroring how compilers emit legacy blocks.
func (s TimeSize) writeTime(w io.Writer, t int64) error {
	switch s {
	case TimeSize32:
		return binary.Write(w, order, int32(t))
	case TimeSize64:
		return binary.Write(w, order, t)
	default:
		return fmt.Errorf("invalid time size: %d", int(s))
	}
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return order.Uint32(buf[:]), nil
}

// Header is the header of a TZif file.
//
// A TZif header is structured as follows (the lengths of multi-octet
// fields are shown in parentheses):
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	// Version is an octet identifying the version of the file's format.
	Version Version
	// Reserved for future use.
	Reserved [15]byte

	// Isutcnt is the number of UT/local indicators in the data block --
	// MUST either be zero or equal to Typecnt.
	Isutcnt uint32
	// Isstdcnt is the number of standard/wall indicators in the data
	// block -- MUST either be zero or equal to Typecnt.
	Isstdcnt uint32
	// Leapcnt is the number of leap-second records in the data block.
	Leapcnt uint32
	// Timecnt is the number of transition times in the data block.
	Timecnt uint32
	// Typecnt is the number of local time type records in the data block.
	Typecnt uint32
	// Charcnt is the total number of octets used by the set of time zone
	// designations in the data block, including the trailing NUL octet
	// of the last designation.
	Charcnt uint32
}

// Write writes the Header to w, including the magic.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader decodes a header from the current cursor position.
// A magic mismatch is reported as an error wrapping ErrBadMagic.
// Truncated input is reported with the name of the field being read.
func ReadHeader(r *bytes.Reader) (Header, error) {
	var h Header
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if magic != Magic {
		return h, fmt.Errorf("%w: %q", ErrBadMagic, magic[:])
	}
	version, err := r.ReadByte()
	if err != nil {
		return h, fmt.Errorf("reading version: %w", err)
	}
	h.Version = Version(version)
	if _, err := io.ReadFull(r, h.Reserved[:]); err != nil {
		return h, fmt.Errorf("reading reserved octets: %w", err)
	}
	for _, field := range []struct {
		name string
		dst  *uint32
	}{
		{"isutcnt", &h.Isutcnt},
		{"isstdcnt", &h.Isstdcnt},
		{"leapcnt", &h.Leapcnt},
		{"timecnt", &h.Timecnt},
		{"typecnt", &h.Typecnt},
		{"charcnt", &h.Charcnt},
	} {
		v, err := readUint32(r)
		if err != nil {
			return h, fmt.Errorf("reading %s: %w", field.name, err)
		}
		*field.dst = v
	}
	return h, nil
}

// LocalTimeTypeRecord is a six-octet record specifying a local time type:
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeTypeRecord struct {
	// Utoff is the number of seconds to be added to UT in order to
	// determine local time.
	Utoff int32
	// Dst indicates whether local time of this type is
	// Daylight Saving Time (DST).
	Dst bool
	// Idx is a zero-based octet index into the time zone designations,
	// selecting the NUL-terminated designation string starting there.
	// It addresses an octet position, not a record number.
	Idx uint8
}

func (r LocalTimeTypeRecord) write(w io.Writer) error {
	if err := binary.Write(w, order, r.Utoff); err != nil {
		return err
	}
	if err := binary.Write(w, order, r.Dst); err != nil {
		return err
	}
	return binary.Write(w, order, r.Idx)
}

// LeapSecondRecord specifies a correction that needs to be applied to
// UTC in order to determine TAI. The occurrence is stored at the width
// of the enclosing data block.
type LeapSecondRecord struct {
	// Occur is the UNIX leap time value at which the correction occurs.
	Occur int64
	// Corr is the value of LEAPCORR on or after the occurrence.
	Corr int32
}

// Body is a TZif data block decoded at a single time value width.
// The same layout appears once per file at 32-bit width and, for
// version 2+ files, a second time at 64-bit width:
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type Body struct {
	// TransitionTimes is a series of UNIX leap-time values sorted in
	// strictly ascending order. Each value is a transition time at which
	// the rules for computing local time may change.
	TransitionTimes []int64
	// TransitionTypes holds one zero-based index into
	// LocalTimeTypeRecords per transition time.
	TransitionTypes []uint8
	// LocalTimeTypeRecords are the local time types of the zone.
	LocalTimeTypeRecords []LocalTimeTypeRecord
	// Designations is the raw pool of NUL-terminated time zone
	// designation strings. Two designations may overlap if one is a
	// suffix of the other; use Designation to extract one.
	Designations []byte
	// LeapSecondRecords are the leap-second corrections, sorted by
	// occurrence time in strictly ascending order.
	LeapSecondRecords []LeapSecondRecord
	// StandardWallIndicators records per local time type whether its
	// transition times were specified as standard time (true) or
	// wall-clock time (false).
	StandardWallIndicators []bool
	// UTLocalIndicators records per local time type whether its
	// transition times were specified as UT (true) or local time (false).
	UTLocalIndicators []bool
}

// ReadBody decodes a data block from the current cursor position at the
// given time value width. The six tables are positionally concatenated,
// so each is read in stream order; truncated input is reported with the
// name of the table being read.
//
// ReadBody rejects transition type indices outside the local time type
// records and designation indices that are out of range, unterminated
// or not ASCII. See Validate for the remaining structural checks.
func ReadBody(r *bytes.Reader, h Header, size TimeSize) (Body, error) {
	var b Body
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		for i := range b.TransitionTimes {
			t, err := size.readTime(r)
			if err != nil {
				return b, fmt.Errorf("reading transition times: %w", err)
			}
			b.TransitionTimes[i] = t
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, b.TransitionTypes); err != nil {
			return b, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypeRecords = make([]LocalTimeTypeRecord, h.Typecnt)
		for i := range b.LocalTimeTypeRecords {
			if err := binary.Read(r, order, &b.LocalTimeTypeRecords[i]); err != nil {
				return b, fmt.Errorf("reading local time type records: %w", err)
			}
		}
	}
	if h.Charcnt > 0 {
		b.Designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.Designations); err != nil {
			return b, fmt.Errorf("reading time zone designations: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSecondRecords = make([]LeapSecondRecord, h.Leapcnt)
		for i := range b.LeapSecondRecords {
			occur, err := size.readTime(r)
			if err != nil {
				return b, fmt.Errorf("reading leap second records: %w", err)
			}
			corr, err := readUint32(r)
			if err != nil {
				return b, fmt.Errorf("reading leap second records: %w", err)
			}
			b.LeapSecondRecords[i] = LeapSecondRecord{Occur: occur, Corr: int32(corr)}
		}
	}
	var err error
	if b.StandardWallIndicators, err = readIndicators(r, h.Isstdcnt); err != nil {
		return b, fmt.Errorf("reading standard/wall indicators: %w", err)
	}
	if b.UTLocalIndicators, err = readIndicators(r, h.Isutcnt); err != nil {
		return b, fmt.Errorf("reading UT/local indicators: %w", err)
	}

	// The tables are linked by index, so broken links are rejected here
	// rather than at first use.
	for i, idx := range b.TransitionTypes {
		if int(idx) >= len(b.LocalTimeTypeRecords) {
			return b, fmt.Errorf("transition %d: %w: %d >= %d", i, ErrTypeIndexOutOfRange, idx, len(b.LocalTimeTypeRecords))
		}
	}
	for i, rec := range b.LocalTimeTypeRecords {
		if _, err := b.Designation(rec.Idx); err != nil {
			return b, fmt.Errorf("local time type record %d: %w", i, err)
		}
	}
	return b, nil
}

func readIndicators(r *bytes.Reader, n uint32) ([]bool, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	indicators := make([]bool, n)
	for i, octet := range buf {
		// 0 means wall-clock respectively local time, any other value
		// means standard respectively universal time.
		indicators[i] = octet != 0
	}
	return indicators, nil
}

// Designation extracts the NUL-terminated designation string starting
// at octet position idx in the designation pool.
func (b Body) Designation(idx uint8) (string, error) {
	if int(idx) >= len(b.Designations) {
		return "", fmt.Errorf("%w: %d >= %d", ErrDesignationOutOfRange, idx, len(b.Designations))
	}
	end := bytes.IndexByte(b.Designations[idx:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: index %d", ErrUnterminatedDesignation, idx)
	}
	designation := b.Designations[int(idx) : int(idx)+end]
	if !isASCII(designation) {
		return "", fmt.Errorf("%w: %q", ErrDesignationInvalidEncoding, designation)
	}
	return string(designation), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Write writes the data block to w at the given time value width.
func (b Body) Write(w io.Writer, size TimeSize) error {
	for _, t := range b.TransitionTimes {
		if err := size.writeTime(w, t); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypeRecords {
		if err := r.write(w); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.Designations); err != nil {
		return err
	}
	for _, r := range b.LeapSecondRecords {
		if err := size.writeTime(w, r.Occur); err != nil {
			return err
		}
		if err := binary.Write(w, order, r.Corr); err != nil {
			return err
		}
	}
	for _, v := range b.StandardWallIndicators {
		if err := binary.Write(w, order, v); err != nil {
			return err
		}
	}
	for _, v := range b.UTLocalIndicators {
		if err := binary.Write(w, order, v); err != nil {
			return err
		}
	}
	return nil
}

// Footer represents the footer of a version 2+ TZif file:
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
type Footer struct {
	// TZString contains a rule for computing local time changes after
	// the last transition time stored in the version 2+ data block. The
	// string is either empty or uses the expanded format of the POSIX
	// "TZ" environment variable with ASCII encoding. It MUST NOT
	// contain NUL octets or be NUL-terminated.
	TZString []byte
}

var asciiNewLine = byte(0x0A)

// Write writes the footer to w.
func (f Footer) Write(w io.Writer) error {
	if _, err := w.Write([]byte{asciiNewLine}); err != nil {
		return err
	}
	if _, err := w.Write(f.TZString); err != nil {
		return err
	}
	_, err := w.Write([]byte{asciiNewLine})
	return err
}

// ReadFooter decodes the newline-framed footer from the current cursor
// position.
func ReadFooter(r *bytes.Reader) (Footer, error) {
	var f Footer
	first, err := r.ReadByte()
	if err != nil {
		return f, fmt.Errorf("reading newline: %w", err)
	}
	if first != asciiNewLine {
		return f, fmt.Errorf("expected newline: %v", first)
	}
	var b []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return f, fmt.Errorf("reading TZ string: %w", err)
		}
		if c == asciiNewLine {
			break
		}
		b = append(b, c)
	}
	if !isASCII(b) {
		return f, fmt.Errorf("%w: %q", ErrTZStringInvalidEncoding, b)
	}
	f.TZString = b
	return f, nil
}
