// Package privacy keeps personal data out of log output. Medical licenses
// carry national patient identifiers, so anything written to logs is masked
// or truncated first.
package privacy

import (
	"fmt"
	"net"
	"strings"
)

// AnonymizeIP truncates an IP address so it no longer identifies a host.
// IPv4 addresses lose the last octet (masked to /24); IPv6 addresses keep
// only the /48 prefix. Returns "invalid" for unparseable input and "unknown"
// for empty strings.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "invalid"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0", v4[0], v4[1], v4[2])
	}

	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::",
		parsed[0], parsed[1],
		parsed[2], parsed[3],
		parsed[4], parsed[5])
}

// MaskPatientID hides all but the last four characters of a patient
// identifier. Identifiers of four characters or fewer are fully masked.
func MaskPatientID(id string) string {
	if id == "" {
		return ""
	}
	if len(id) <= 4 {
		return strings.Repeat("*", len(id))
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}
