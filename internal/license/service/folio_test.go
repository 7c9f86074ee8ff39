package service

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var folioPattern = regexp.MustCompile(`^LIC-(\d+)-([A-Z0-9]{6})$`)

func TestGenerateFolioShape(t *testing.T) {
	now := time.Date(2025, 9, 26, 10, 30, 0, 0, time.UTC)
	folio := generateFolio(now)

	matches := folioPattern.FindStringSubmatch(folio)
	require.NotNil(t, matches, "folio %q does not match the expected shape", folio)

	millis, err := strconv.ParseInt(matches[1], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), millis)
}

func TestGenerateFolioSuffixAlphabet(t *testing.T) {
	folio := generateFolio(time.Now())
	suffix := folio[strings.LastIndex(folio, "-")+1:]

	require.Len(t, suffix, 6)
	for _, r := range suffix {
		assert.Contains(t, folioAlphabet, string(r))
	}
}

func TestGenerateFolioVariesWithinSameMillisecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for range 100 {
		seen[generateFolio(now)] = true
	}
	// 36^6 suffixes make a repeat across 100 draws vanishingly unlikely.
	assert.Greater(t, len(seen), 95)
}
