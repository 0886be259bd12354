package archive

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipSpec struct {
	name   string
	data   string
	method uint16
}

func buildZip(t *testing.T, files []zipSpec) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	// method 12 stands in for any unsupported compression; write bytes as-is
	w.RegisterCompressor(12, func(out io.Writer) (io.WriteCloser, error) {
		return &nopWriteCloser{out}, nil
	})
	for _, f := range files {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: f.name, Method: f.method})
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

type nopWriteCloser struct {
	io.Writer
}

func (n *nopWriteCloser) Close() error { return nil }

func TestExtractEntriesStoredAndDeflate(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "flights/a.igc", data: "AXXX\nB1000001234567N12345678EA0123401234\n", method: zip.Store},
		{name: "flights/b.igc", data: "AYYY\nB1001001234568N12345679EA0123501235\n", method: zip.Deflate},
		{name: "readme.txt", data: "not a flight", method: zip.Store},
	})

	entries, entryErrs, err := ExtractEntries(zipBytes, Limits{})
	require.NoError(t, err)
	assert.Empty(t, entryErrs)
	require.Len(t, entries, 2)
	assert.Equal(t, "flights/a.igc", entries[0].Path)
	assert.Equal(t, "a.igc", entries[0].Name)
	assert.Equal(t, "igc", entries[0].InferredType)
	assert.Equal(t, "AXXX\nB1000001234567N12345678EA0123401234\n", string(entries[0].Data))
	assert.Equal(t, "AYYY\nB1001001234568N12345679EA0123501235\n", string(entries[1].Data))
}

func TestExtractEntriesRejectsUnsafePaths(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "../../etc/passwd.igc", data: "evil", method: zip.Store},
		{name: "C:/evil.igc", data: "evil", method: zip.Store},
		{name: "nested/", data: "", method: zip.Store},
		{name: "good.igc", data: "B1000001234567N12345678EA0123401234", method: zip.Store},
	})

	entries, entryErrs, err := ExtractEntries(zipBytes, Limits{})
	require.NoError(t, err)
	assert.Empty(t, entryErrs)
	require.Len(t, entries, 1)
	assert.Equal(t, "good.igc", entries[0].Path)
}

func TestExtractEntriesMissingEOCD(t *testing.T) {
	_, _, err := ExtractEntries([]byte("definitely not a zip archive"), Limits{})
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	_, _, err = ExtractEntries([]byte{0x50, 0x4b}, Limits{})
	require.ErrorAs(t, err, &formatErr)
}

func TestExtractEntriesEntryCountLimit(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "a.igc", data: "a", method: zip.Store},
		{name: "b.igc", data: "b", method: zip.Store},
	})

	_, _, err := ExtractEntries(zipBytes, Limits{MaxEntries: 1})
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Limit, "too many entries")
}

func TestExtractEntriesSizeLimit(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "big.igc", data: "0123456789012345678901234567890123456789", method: zip.Store},
	})

	_, _, err := ExtractEntries(zipBytes, Limits{MaxUncompressedBytes: 10})
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Limit, "entry too large")
}

func TestExtractEntriesDeflateOverrunsDeclaredSize(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "lying.igc", data: strings.Repeat("x", 200), method: zip.Deflate},
	})

	// understate the declared uncompressed size in the central directory;
	// the deflate stream still inflates to 200 bytes
	central := bytes.Index(zipBytes, []byte{0x50, 0x4b, 0x01, 0x02})
	require.GreaterOrEqual(t, central, 0)
	binary.LittleEndian.PutUint32(zipBytes[central+24:], 10)

	_, _, err := ExtractEntries(zipBytes, Limits{})
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Contains(t, limitErr.Limit, "exceeds declared size")
}

func TestExtractEntriesUnsupportedCompression(t *testing.T) {
	zipBytes := buildZip(t, []zipSpec{
		{name: "weird.igc", data: "compressed with something exotic", method: 12},
		{name: "plain.igc", data: "B1000001234567N12345678EA0123401234", method: zip.Store},
	})

	entries, entryErrs, err := ExtractEntries(zipBytes, Limits{})
	require.NoError(t, err)
	require.Len(t, entryErrs, 1)
	var unsupported *UnsupportedCompressionError
	require.ErrorAs(t, entryErrs[0], &unsupported)
	assert.Equal(t, uint16(12), unsupported.Method)
	assert.Equal(t, "weird.igc", unsupported.Path)
	// the remaining entry still extracts
	require.Len(t, entries, 1)
	assert.Equal(t, "plain.igc", entries[0].Path)
}

func TestInferImportFileType(t *testing.T) {
	assert.Equal(t, "igc", InferImportFileType("Flight.IGC"))
	assert.Equal(t, "zip", InferImportFileType("bundle.zip"))
	assert.Equal(t, "csv", InferImportFileType("legacy.csv"))
	assert.Equal(t, "", InferImportFileType("notes.txt"))
}
