package zonearchive

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	content []byte
	dir     bool
}

func buildArchive(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.content))}
		if e.dir {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
			hdr.Size = 0
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write(e.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestReadArchive(t *testing.T) {
	utc := []byte("TZif\x00fake-utc-zone-data")
	ams := []byte("TZif2fake-amsterdam-zone-data")
	snapshot := buildArchive(t, []entry{
		{name: "./", dir: true},
		{name: "./UTC", content: utc},
		{name: "./Europe/", dir: true},
		{name: "./Europe/Amsterdam", content: ams},
		{name: "./zone.tab", content: []byte("# coordinates and zone names\n")},
		{name: "./x", content: []byte("no")}, // too small to hold the magic
	})

	a, err := ReadArchive(bytes.NewReader(snapshot))
	require.NoError(t, err)
	require.Len(t, a.Zones, 2)
	require.Equal(t, utc, a.Zones["UTC"])
	require.Equal(t, ams, a.Zones["Europe/Amsterdam"])
}

func TestReadArchive_NoZones(t *testing.T) {
	snapshot := buildArchive(t, []entry{
		{name: "zone.tab", content: []byte("# no compiled zones here\n")},
	})
	_, err := ReadArchive(bytes.NewReader(snapshot))
	require.Error(t, err)
}

func TestReadArchive_NotGzip(t *testing.T) {
	_, err := ReadArchive(bytes.NewReader([]byte("plain text")))
	require.Error(t, err)
}
