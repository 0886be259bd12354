// Package archive implements a minimal ZIP reader for flight-track bundles.
// Only stored and deflate entries are supported and extraction is bounded by
// configurable entry-count and uncompressed-size limits.
package archive

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	eocdSignature          = 0x06054b50
	centralHeaderSignature = 0x02014b50
	localHeaderSignature   = 0x04034b50

	eocdMinSize = 22
	// Maximum possible span of the EOCD record plus its comment.
	maxEOCDSpan = 65557
)

// Limits bounds archive extraction
type Limits struct {
	MaxEntries           int
	MaxUncompressedBytes int64
}

// DefaultLimits matches the production ceilings: 2000 entries, 250 MiB total
var DefaultLimits = Limits{
	MaxEntries:           2000,
	MaxUncompressedBytes: 250 * 1024 * 1024,
}

// Entry is one extracted archive member
type Entry struct {
	Path         string // sanitized path inside the archive
	Name         string // base name
	InferredType string // igc or csv
	Data         []byte
}

// FormatError reports a malformed ZIP container
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid zip: " + e.Reason
}

// LimitError reports that a configured extraction ceiling was exceeded
type LimitError struct {
	Limit string
}

func (e *LimitError) Error() string {
	return "zip limit exceeded: " + e.Limit
}

// UnsupportedCompressionError reports an entry compressed with a method
// other than stored or deflate. It is fatal to that entry only.
type UnsupportedCompressionError struct {
	Method uint16
	Path   string
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported zip compression method %d for %s", e.Method, e.Path)
}

var driveLetterRe = regexp.MustCompile(`^[A-Za-z]:/`)

// InferImportFileType maps a file name to an import type by extension only.
// Returns "igc", "zip", "csv" (legacy) or "" for unsupported names.
func InferImportFileType(fileName string) string {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".igc"):
		return "igc"
	case strings.HasSuffix(lower, ".csv"):
		return "csv"
	case strings.HasSuffix(lower, ".zip"):
		return "zip"
	default:
		return ""
	}
}

func isSupportedFlightFile(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasSuffix(lower, ".igc") || strings.HasSuffix(lower, ".csv")
}

// sanitizePath normalizes an entry name and rejects directories, traversal
// segments and absolute Windows paths. Returns "" for rejected names.
func sanitizePath(entryName string) string {
	normalized := strings.ReplaceAll(entryName, `\`, "/")
	normalized = strings.TrimLeft(normalized, "/")
	if normalized == "" || strings.HasSuffix(normalized, "/") {
		return ""
	}
	if strings.Contains(normalized, "../") {
		return ""
	}
	if driveLetterRe.MatchString(normalized) {
		return ""
	}
	return normalized
}

// findEOCDOffset scans backward from the end of the buffer for the
// end-of-central-directory signature. Returns -1 when absent.
func findEOCDOffset(b []byte) int {
	minOffset := len(b) - maxEOCDSpan
	if minOffset < 0 {
		minOffset = 0
	}
	for offset := len(b) - eocdMinSize; offset >= minOffset; offset-- {
		if binary.LittleEndian.Uint32(b[offset:]) == eocdSignature {
			return offset
		}
	}
	return -1
}

// ExtractEntries parses the central directory of zipBytes and returns the
// decompressed entries whose names pass sanitization and whose extension is
// in the supported set, in central-directory order. Per-entry failures that
// do not invalidate the rest of the archive (unsupported compression) are
// accumulated in entryErrs; structural and limit failures abort extraction.
func ExtractEntries(zipBytes []byte, limits Limits) (entries []Entry, entryErrs []error, err error) {
	if limits.MaxEntries <= 0 {
		limits.MaxEntries = DefaultLimits.MaxEntries
	}
	if limits.MaxUncompressedBytes <= 0 {
		limits.MaxUncompressedBytes = DefaultLimits.MaxUncompressedBytes
	}

	if len(zipBytes) < eocdMinSize {
		return nil, nil, &FormatError{Reason: "missing end of central directory"}
	}
	eocdOffset := findEOCDOffset(zipBytes)
	if eocdOffset < 0 {
		return nil, nil, &FormatError{Reason: "missing end of central directory"}
	}

	totalEntries := int(binary.LittleEndian.Uint16(zipBytes[eocdOffset+10:]))
	centralDirSize := int64(binary.LittleEndian.Uint32(zipBytes[eocdOffset+12:]))
	centralDirOffset := int64(binary.LittleEndian.Uint32(zipBytes[eocdOffset+16:]))

	if totalEntries > limits.MaxEntries {
		return nil, nil, &LimitError{
			Limit: fmt.Sprintf("too many entries (%d > %d)", totalEntries, limits.MaxEntries),
		}
	}
	if centralDirOffset+centralDirSize > int64(len(zipBytes)) {
		return nil, nil, &FormatError{Reason: "central directory out of range"}
	}

	cursor := centralDirOffset
	var totalUncompressed int64

	for i := 0; i < totalEntries; i++ {
		if cursor+46 > int64(len(zipBytes)) {
			return nil, nil, &FormatError{Reason: "truncated central directory entry"}
		}
		if binary.LittleEndian.Uint32(zipBytes[cursor:]) != centralHeaderSignature {
			return nil, nil, &FormatError{Reason: "malformed central directory signature"}
		}

		compressionMethod := binary.LittleEndian.Uint16(zipBytes[cursor+10:])
		compressedSize := int64(binary.LittleEndian.Uint32(zipBytes[cursor+20:]))
		uncompressedSize := int64(binary.LittleEndian.Uint32(zipBytes[cursor+24:]))
		fileNameLength := int64(binary.LittleEndian.Uint16(zipBytes[cursor+28:]))
		extraLength := int64(binary.LittleEndian.Uint16(zipBytes[cursor+30:]))
		commentLength := int64(binary.LittleEndian.Uint16(zipBytes[cursor+32:]))
		localHeaderOffset := int64(binary.LittleEndian.Uint32(zipBytes[cursor+42:]))

		fileNameStart := cursor + 46
		fileNameEnd := fileNameStart + fileNameLength
		if fileNameEnd > int64(len(zipBytes)) {
			return nil, nil, &FormatError{Reason: "file name out of range"}
		}
		rawName := string(zipBytes[fileNameStart:fileNameEnd])
		safePath := sanitizePath(rawName)

		cursor = fileNameEnd + extraLength + commentLength

		if safePath == "" || !isSupportedFlightFile(safePath) {
			continue
		}

		if uncompressedSize > limits.MaxUncompressedBytes {
			return nil, nil, &LimitError{
				Limit: fmt.Sprintf("entry too large: %s", safePath),
			}
		}
		totalUncompressed += uncompressedSize
		if totalUncompressed > limits.MaxUncompressedBytes {
			return nil, nil, &LimitError{
				Limit: fmt.Sprintf("uncompressed total exceeds %d bytes", limits.MaxUncompressedBytes),
			}
		}

		if localHeaderOffset+30 > int64(len(zipBytes)) {
			return nil, nil, &FormatError{Reason: "local header out of range"}
		}
		if binary.LittleEndian.Uint32(zipBytes[localHeaderOffset:]) != localHeaderSignature {
			return nil, nil, &FormatError{Reason: "malformed local header for " + safePath}
		}

		localNameLen := int64(binary.LittleEndian.Uint16(zipBytes[localHeaderOffset+26:]))
		localExtraLen := int64(binary.LittleEndian.Uint16(zipBytes[localHeaderOffset+28:]))
		dataStart := localHeaderOffset + 30 + localNameLen + localExtraLen
		dataEnd := dataStart + compressedSize
		if dataEnd > int64(len(zipBytes)) {
			return nil, nil, &FormatError{Reason: "compressed data out of range for " + safePath}
		}

		compressed := zipBytes[dataStart:dataEnd]
		var data []byte
		switch compressionMethod {
		case 0: // stored
			data = append([]byte(nil), compressed...)
		case 8: // deflate
			data, err = inflateRaw(compressed, uncompressedSize)
			if errors.Is(err, errInflateOverrun) {
				return nil, nil, &LimitError{
					Limit: fmt.Sprintf("deflate stream exceeds declared size for %s", safePath),
				}
			}
			if err != nil {
				return nil, nil, &FormatError{Reason: "corrupt deflate stream in " + safePath}
			}
		default:
			entryErrs = append(entryErrs, &UnsupportedCompressionError{
				Method: compressionMethod,
				Path:   safePath,
			})
			continue
		}

		name := safePath
		if idx := strings.LastIndex(safePath, "/"); idx >= 0 {
			name = safePath[idx+1:]
		}
		entries = append(entries, Entry{
			Path:         safePath,
			Name:         name,
			InferredType: InferImportFileType(safePath),
			Data:         data,
		})
	}

	return entries, entryErrs, nil
}

var errInflateOverrun = errors.New("deflate stream exceeds declared size")

// inflateRaw decompresses a raw deflate stream. The declared uncompressed
// size bounds the read so a lying central directory cannot bypass the
// extraction limits.
func inflateRaw(compressed []byte, declaredSize int64) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	data, err := io.ReadAll(io.LimitReader(r, declaredSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > declaredSize {
		return nil, errInflateOverrun
	}
	return data, nil
}
