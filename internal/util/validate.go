package util

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// validHostChars matches only alphanumeric characters, hyphens, and periods.
var validHostChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateHost checks that a Cuebot host entry is a hostname or IP address,
// optionally followed by ":port". IPv6 addresses with a port must be
// bracketed ("[::1]:8443").
func ValidateHost(entry string) error {
	if strings.TrimSpace(entry) != entry || entry == "" {
		return fmt.Errorf("host %q must be non-empty and must not contain surrounding whitespace", entry)
	}

	host := entry
	if h, port, err := net.SplitHostPort(entry); err == nil {
		if err := validatePort(port); err != nil {
			return fmt.Errorf("host %q: %w", entry, err)
		}
		host = h
	} else if strings.Count(entry, ":") == 1 {
		return fmt.Errorf("host %q: %w", entry, err)
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	if !validHostChars.MatchString(host) {
		return fmt.Errorf("host %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", entry)
	}

	first := host[0]
	if !isAlphanumeric(first) {
		return fmt.Errorf("host %q must start with an alphanumeric character", entry)
	}

	last := host[len(host)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("host %q must not end with a hyphen or period", entry)
	}

	return nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
