// Package domain implements the default syntax check for the domain name a
// miner commits to in the coinbase input script.
package domain

import (
	"strings"

	"github.com/miekg/dns"
)

// MaxLength is the longest accepted domain, excluding a trailing dot.
const MaxLength = 253

// IsValidDomain reports whether s is a lowercase, fully qualified host name
// with at least two labels, such as "example.com". Trailing dots, wildcards,
// uppercase and non LDH characters are rejected.
func IsValidDomain(s string) bool {
	if s == "" || len(s) > MaxLength || strings.HasSuffix(s, ".") {
		return false
	}

	labels, ok := dns.IsDomainName(s)
	if !ok || labels < 2 {
		return false
	}

	for _, label := range strings.Split(s, ".") {
		if !isLDHLabel(label) {
			return false
		}
	}

	return true
}

func isLDHLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}

	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}

	for i := 0; i < len(label); i++ {
		c := label[i]

		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}

	return true
}
