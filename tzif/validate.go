package tzif

import (
	"errors"
	"fmt"
)

// Validate checks the decoded file against the structural requirements
// of RFC 8536 that Decode does not enforce on its own. All violations
// are reported, joined into a single error.
func Validate(f File) error {
	var errs []error
	if f.Version != f.V1Header.Version {
		errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v1 header = %v", f.Version, f.V1Header.Version))
	}

	errs = append(errs, validateBlock("v1", f.V1Header, f.V1Body)...)

	if f.Version.wide() {
		if f.Version != f.V2Header.Version {
			errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v2 header = %v", f.Version, f.V2Header.Version))
		}
		errs = append(errs, validateBlock("v2", f.V2Header, f.V2Body)...)
	}

	return errors.Join(errs...)
}

func validateBlock(tag string, header Header, data Body) []error {
	var err []error

	// Isutcnt
	if header.Isutcnt != 0 && header.Isutcnt != header.Typecnt {
		err = append(err, fmt.Errorf("invalid %s isutcnt (%d): must be 0 or equal to typecnt (%d)", tag, header.Isutcnt, header.Typecnt))
	}
	if len(data.UTLocalIndicators) != int(header.Isutcnt) {
		err = append(err, fmt.Errorf("invalid %s isutcnt: header = %d, data = %d", tag, header.Isutcnt, len(data.UTLocalIndicators)))
	}

	// Isstdcnt
	if header.Isstdcnt != 0 && header.Isstdcnt != header.Typecnt {
		err = append(err, fmt.Errorf("invalid %s isstdcnt (%d): must be 0 or equal to typecnt (%d)", tag, header.Isstdcnt, header.Typecnt))
	}
	if len(data.StandardWallIndicators) != int(header.Isstdcnt) {
		err = append(err, fmt.Errorf("invalid %s isstdcnt: header = %d, data = %d", tag, header.Isstdcnt, len(data.StandardWallIndicators)))
	}

	// Leapcnt
	if len(data.LeapSecondRecords) != int(header.Leapcnt) {
		err = append(err, fmt.Errorf("invalid %s leapcnt: header = %d, data = %d", tag, header.Leapcnt, len(data.LeapSecondRecords)))
	}

	// Timecnt
	if len(data.TransitionTimes) != int(header.Timecnt) {
		err = append(err, fmt.Errorf("invalid %s timecnt: header = %d, transition times = %d", tag, header.Timecnt, len(data.TransitionTimes)))
	}
	if times, types := len(data.TransitionTimes), len(data.TransitionTypes); times != types {
		err = append(err, fmt.Errorf("inconsistent %s transitions: transition times = %d, transition types = %d", tag, times, types))
	}

	// Typecnt
	if header.Typecnt == 0 {
		err = append(err, fmt.Errorf("invalid %s typecnt: must not be zero", tag))
	}
	if len(data.LocalTimeTypeRecords) != int(header.Typecnt) {
		err = append(err, fmt.Errorf("invalid %s typecnt: header = %d, data = %d", tag, header.Typecnt, len(data.LocalTimeTypeRecords)))
	}

	// Charcnt
	if header.Charcnt == 0 {
		err = append(err, fmt.Errorf("invalid %s charcnt: must not be zero", tag))
	}
	if len(data.Designations) != int(header.Charcnt) {
		err = append(err, fmt.Errorf("invalid %s charcnt: header = %d, data = %d", tag, header.Charcnt, len(data.Designations)))
	}
	if len(data.Designations) > 0 && data.Designations[len(data.Designations)-1] != 0 {
		err = append(err, fmt.Errorf("invalid %s time zone designations: missing null terminator", tag))
	}
	return err
}
