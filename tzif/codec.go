package tzif

import (
	"bytes"
	"fmt"
	"io"
)

// File represents a decoded TZif file.
//
// The legacy 32-bit block is always present. For version 2+ files the
// file additionally carries the same tables at 64-bit width plus a
// footer; readers should prefer V2Body whenever the version provides
// one, since the legacy block clips timestamps to the 32-bit range.
type File struct {
	Version Version

	V1Header Header
	V1Body   Body

	V2Header Header
	V2Body   Body
	Footer   Footer
}

// Decode decodes a TZif file from buf.
//
// For version 2+ files the table set is decoded twice, once at each
// time value width, followed by the footer. Decode verifies the magic,
// per-table truncation and the index links between tables; it does not
// enforce the stricter RFC 8536 count relations, see Validate for those.
func Decode(buf []byte) (File, error) {
	var (
		f   File
		err error
		r   = bytes.NewReader(buf)
	)
	f.V1Header, err = ReadHeader(r)
	if err != nil {
		return f, fmt.Errorf("read v1 header: %w", err)
	}
	f.Version = f.V1Header.Version

	f.V1Body, err = ReadBody(r, f.V1Header, TimeSize32)
	if err != nil {
		return f, fmt.Errorf("read v1 data block: %w", err)
	}

	if f.Version.wide() {
		f.V2Header, err = ReadHeader(r)
		if err != nil {
			return f, fmt.Errorf("read v2 header: %w", err)
		}
		f.V2Body, err = ReadBody(r, f.V2Header, TimeSize64)
		if err != nil {
			return f, fmt.Errorf("read v2 data block: %w", err)
		}
		f.Footer, err = ReadFooter(r)
		if err != nil {
			return f, fmt.Errorf("read footer: %w", err)
		}
	}

	return f, nil
}

// Encode writes the TZif file to the given writer.
// If the version is V1, the V2 fields and the footer are not written.
func (f File) Encode(w io.Writer) error {
	if err := f.V1Header.Write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := f.V1Body.Write(w, TimeSize32); err != nil {
		return fmt.Errorf("write v1 data block: %w", err)
	}
	if f.Version.wide() {
		if err := f.V2Header.Write(w); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := f.V2Body.Write(w, TimeSize64); err != nil {
			return fmt.Errorf("write v2 data block: %w", err)
		}
		if err := f.Footer.Write(w); err != nil {
			return fmt.Errorf("write footer: %w", err)
		}
	}
	return nil
}
