// Package zonearchive unpacks snapshots of a compiled zoneinfo tree.
//
// A snapshot is a gzip-compressed tar archive of tzfile(5) files, for
// example a packaged /usr/share/zoneinfo. Entries are recognized by
// the TZif magic; anything else in the archive is skipped.
package zonearchive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ngrash/go-zoneinfo/tzif"
)

// Archive is an unpacked zoneinfo snapshot.
type Archive struct {
	// Zones maps slash-separated zone names to raw TZif file contents.
	// Names are relative to the archive root. Contents always start
	// with the TZif magic.
	Zones map[string][]byte
}

// ReadArchive unpacks a zoneinfo snapshot from a gzip-compressed tar
// archive.
func ReadArchive(r io.Reader) (*Archive, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	var (
		result   = Archive{Zones: make(map[string][]byte)}
		magicBuf = make([]byte, len(tzif.Magic))
	)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if header.Size < int64(len(tzif.Magic)) {
			// Too small to contain the magic.
			continue
		}

		// Read only the magic to check if it's a zone file.
		_, err = io.ReadFull(tr, magicBuf)
		if err != nil {
			return nil, fmt.Errorf("read magic of %q: %w", header.Name, err)
		}
		if !bytes.Equal(magicBuf, tzif.Magic[:]) {
			continue // Not a zone file.
		}

		// Is a zone file. Prepare to read the rest of the file.
		data := make([]byte, header.Size)
		copy(data[:len(tzif.Magic)], magicBuf)

		_, err = io.ReadFull(tr, data[len(tzif.Magic):])
		if err != nil {
			return nil, fmt.Errorf("read rest of file %q: %w", header.Name, err)
		}

		result.Zones[zoneName(header.Name)] = data
	}

	if len(result.Zones) == 0 {
		return nil, fmt.Errorf("no zone files found")
	}

	return &result, nil
}

// zoneName strips the leading "./" some tar producers prepend.
func zoneName(name string) string {
	return strings.TrimPrefix(name, "./")
}
