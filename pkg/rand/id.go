package rand

import (
	cr "crypto/rand"
	"encoding/base32"
)

// ClientID returns prefix joined to 16 random base32 characters, suitable
// for broker client identifiers that must not collide between instances.
func ClientID(prefix string) string {
	var b [10]byte // 10 raw bytes → 16 base32 chars
	_, _ = cr.Read(b[:])
	id := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b[:])
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
