package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 standard address", "192.168.1.47", "192.168.1.0"},
		{"ipv4 with last octet zero", "10.0.0.0", "10.0.0.0"},
		{"ipv4 localhost", "127.0.0.1", "127.0.0.0"},
		{"ipv6 full address", "2001:db8:85a3:0000:0000:8a2e:0370:7334", "2001:0db8:85a3::"},
		{"ipv6 compressed address", "2001:db8:85a3::8a2e:370:7334", "2001:0db8:85a3::"},
		{"ipv6 loopback", "::1", "0000:0000:0000::"},
		{"empty string", "", "unknown"},
		{"unknown value", "unknown", "unknown"},
		{"invalid ip", "not-an-ip", "invalid"},
		{"ip with port", "192.168.1.1:8080", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestAnonymizeIPSameNetworkProducesSameOutput(t *testing.T) {
	for _, ip := range []string{"192.168.1.1", "192.168.1.100", "192.168.1.255"} {
		assert.Equal(t, "192.168.1.0", AnonymizeIP(ip))
	}
}

func TestMaskPatientID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"chilean run", "11111111-1", "******11-1"},
		{"short id fully masked", "1234", "****"},
		{"single char", "x", "*"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskPatientID(tt.input))
		})
	}
}
