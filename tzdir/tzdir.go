// Package tzdir locates compiled zone files in an installed zoneinfo
// tree. It enumerates the names a system offers and maps a zone name
// to the raw bytes of its tzfile(5), leaving all decoding to packages
// tzif and zoneinfo.
package tzdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSearchRoots are the directories conventionally holding the
// compiled zoneinfo tree, tried in order.
var DefaultSearchRoots = []string{
	"/usr/share/zoneinfo",
	"/usr/local/share/zoneinfo",
}

// LocaltimeFile is the well-known file describing the local timezone
// of the host.
const LocaltimeFile = "/etc/localtime"

// ErrZoneNotFound is returned by ReadZone when no search root contains
// the requested zone.
var ErrZoneNotFound = errors.New("tzdir: zone not found")

// Resolver maps zone names to zone file contents.
// The zero value uses DefaultSearchRoots and LocaltimeFile.
type Resolver struct {
	// SearchRoots are the directories searched for zone files, in
	// order. If empty, DefaultSearchRoots is used.
	SearchRoots []string
	// LocaltimePath is the file read by ReadLocal.
	// If empty, LocaltimeFile is used.
	LocaltimePath string
}

// DefaultResolver is the resolver used by the top-level functions
// Zones, ReadZone and ReadLocal.
var DefaultResolver = &Resolver{}

// Zones lists the zone names installed on this host.
// It is a wrapper around DefaultResolver.Zones.
func Zones() ([]string, error) { return DefaultResolver.Zones() }

// ReadZone reads the zone file for the named zone.
// It is a wrapper around DefaultResolver.ReadZone.
func ReadZone(name string) ([]byte, error) { return DefaultResolver.ReadZone(name) }

// ReadLocal reads the local timezone file of the host.
// It is a wrapper around DefaultResolver.ReadLocal.
func ReadLocal() ([]byte, error) { return DefaultResolver.ReadLocal() }

func (r *Resolver) roots() []string {
	if len(r.SearchRoots) == 0 {
		return DefaultSearchRoots
	}
	return r.SearchRoots
}

// Zones returns the sorted names of all zone files under the first
// search root that contains any, as slash-separated paths relative to
// that root. Roots that do not exist are skipped.
func (r *Resolver) Zones() ([]string, error) {
	for _, root := range r.roots() {
		zones, err := zonesUnder(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("enumerating %s: %w", root, err)
		}
		if len(zones) > 0 {
			sort.Strings(zones)
			return zones, nil
		}
	}
	return nil, nil
}

func zonesUnder(root string) ([]string, error) {
	var zones []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		zones = append(zones, filepath.ToSlash(rel))
		return nil
	})
	return zones, err
}

// ReadZone returns the contents of the zone file for the named zone,
// e.g. "Europe/Amsterdam", trying each search root in order. The file
// is read in one bounded operation; the underlying handle is closed on
// every path. If no root has the zone, the error wraps ErrZoneNotFound.
func (r *Resolver) ReadZone(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	for _, root := range r.roots() {
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrZoneNotFound)
}

// ReadLocal returns the contents of the local timezone file.
func (r *Resolver) ReadLocal() ([]byte, error) {
	path := r.LocaltimePath
	if path == "" {
		path = LocaltimeFile
	}
	return os.ReadFile(path)
}

// validName rejects names that would escape the search roots.
func validName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid zone name %q", name)
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return fmt.Errorf("invalid zone name %q: must be relative", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return fmt.Errorf("invalid zone name %q: must not contain ..", name)
		}
	}
	return nil
}
