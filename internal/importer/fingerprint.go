// Package importer reconciles parsed flight files against stored activities:
// content fingerprinting for duplicate detection, CSV/IGC statistics merging
// with consistency checks, duplicate classification and payload chunking.
package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeForHash reduces IGC text to the lines that identify the flight:
// the date header and the B records. Line endings, surrounding whitespace,
// blank lines and every other header are discarded, so re-downloads of the
// same track from different tools hash identically. An HFDTEDATE: header is
// canonicalized to the short HFDTE form.
func NormalizeForHash(igcContent string) string {
	lines := strings.Split(strings.ReplaceAll(igcContent, "\r\n", "\n"), "\n")

	dateLine := ""
	var bLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if dateLine == "" && strings.HasPrefix(line, "HFDTE") {
			dateLine = strings.Replace(line, "HFDTEDATE:", "HFDTE", 1)
		}
		if strings.HasPrefix(line, "B") {
			bLines = append(bLines, line)
		}
	}

	if len(bLines) == 0 {
		return dateLine
	}

	parts := bLines
	if dateLine != "" {
		parts = append([]string{dateLine}, bLines...)
	}
	return strings.Join(parts, "\n")
}

// Fingerprint returns the lowercase hex SHA-256 of the normalized track
func Fingerprint(igcContent string) string {
	sum := sha256.Sum256([]byte(NormalizeForHash(igcContent)))
	return hex.EncodeToString(sum[:])
}

// FallbackFingerprint is the weak rolling hash legacy clients emit when no
// crypto provider is available. Stored fingerprints with the "fallback-"
// prefix were produced by it, so comparisons against old records must
// recompute with this form.
func FallbackFingerprint(igcContent string) string {
	var hash int32
	for _, b := range []byte(NormalizeForHash(igcContent)) {
		hash = (hash << 5) - hash + int32(b)
	}
	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("fallback-%d", abs)
}

// IsFallbackFingerprint reports whether fp came from the weak rolling hash
func IsFallbackFingerprint(fp string) bool {
	return strings.HasPrefix(fp, "fallback-")
}
