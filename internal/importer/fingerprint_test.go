package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const trackBody = "HFDTE100225\n" +
	"B1000004712345N01112345EA0100001050\n" +
	"B1000304712400N01112400EA0101001060\n"

func TestFingerprintIgnoresNonIdentifyingLines(t *testing.T) {
	plain := "AXCT001\n" + trackBody + "LXXX comment\n"
	decorated := "AXCT999\r\n" +
		"HFPLTPILOT:Jane Doe\r\n" +
		"HFDTEDATE:100225\r\n" +
		"  B1000004712345N01112345EA0100001050  \r\n" +
		"\r\n" +
		"B1000304712400N01112400EA0101001060\r\n" +
		"GABCDEF\r\n"

	assert.Equal(t, Fingerprint(plain), Fingerprint(decorated))
	assert.Equal(t, FallbackFingerprint(plain), FallbackFingerprint(decorated))
}

func TestFingerprintDistinguishesTracks(t *testing.T) {
	other := strings.Replace(trackBody, "B100030", "B100031", 1)
	assert.NotEqual(t, Fingerprint(trackBody), Fingerprint(other))
}

func TestNormalizeForHash(t *testing.T) {
	normalized := NormalizeForHash("AXCT001\nHFDTEDATE:100225\n" + trackBody[len("HFDTE100225\n"):] + "LXXX\n")
	lines := strings.Split(normalized, "\n")
	assert.Equal(t, "HFDTE100225", lines[0])
	assert.Len(t, lines, 3)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "B"))
	}
}

func TestNormalizeForHashWithoutFixes(t *testing.T) {
	assert.Equal(t, "HFDTE100225", NormalizeForHash("HFDTE100225\nHFPLTPILOT:X\n"))
	assert.Equal(t, "", NormalizeForHash("HFPLTPILOT:X\n"))
}

func TestFallbackFingerprintFormat(t *testing.T) {
	fp := FallbackFingerprint(trackBody)
	assert.True(t, IsFallbackFingerprint(fp))
	assert.False(t, IsFallbackFingerprint(Fingerprint(trackBody)))
}
