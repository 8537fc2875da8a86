package devices

import (
	"errors"
	"strings"
)

var ErrInvalidMAC = errors.New("invalid MAC address")

// NormalizeMAC returns the canonical form of a hardware address: six
// uppercase hex octets separated by ':'. Dashes, lowercase and the bare
// 12-digit form are accepted on input.
func NormalizeMAC(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", ":")
	if len(s) == 12 && !strings.Contains(s, ":") {
		var b strings.Builder
		for i := 0; i < 12; i += 2 {
			if i > 0 {
				b.WriteByte(':')
			}
			b.WriteString(s[i : i+2])
		}
		s = b.String()
	}

	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return "", ErrInvalidMAC
	}
	for _, p := range parts {
		if len(p) != 2 || !isHex(p[0]) || !isHex(p[1]) {
			return "", ErrInvalidMAC
		}
	}
	return s, nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}
