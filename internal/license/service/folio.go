package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	folioPrefix       = "LIC"
	folioSuffixLength = 6
	folioAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateFolio produces a candidate folio of the form
// LIC-<millisecond timestamp>-<6 uppercase alphanumerics>. Candidates are
// not guaranteed unique; the caller checks the store and retries.
func generateFolio(now time.Time) string {
	suffix := make([]byte, folioSuffixLength)
	// rand.Read never fails on supported platforms (it panics instead).
	_, _ = rand.Read(suffix)
	for i, b := range suffix {
		suffix[i] = folioAlphabet[int(b)%len(folioAlphabet)]
	}
	return fmt.Sprintf("%s-%d-%s", folioPrefix, now.UnixMilli(), suffix)
}
