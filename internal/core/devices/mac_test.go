package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMAC(t *testing.T) {
	cases := map[string]string{
		"AA:BB:CC:DD:EE:FF":   "AA:BB:CC:DD:EE:FF",
		"aa:bb:cc:dd:ee:ff":   "AA:BB:CC:DD:EE:FF",
		"cc-db-a7-2f-ae-b0":   "CC:DB:A7:2F:AE:B0",
		"ccdba72faeb0":        "CC:DB:A7:2F:AE:B0",
		"  01:23:45:67:89:ab ": "01:23:45:67:89:AB",
	}
	for in, want := range cases {
		got, err := NormalizeMAC(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeMAC_Invalid(t *testing.T) {
	for _, in := range []string{"", "AA:BB:CC:DD:EE", "AA:BB:CC:DD:EE:GG", "AABB:CC:DD:EE:FF:00", "AA:BB:CC:DD:EE:FF:00", "not-a-mac"} {
		_, err := NormalizeMAC(in)
		assert.ErrorIs(t, err, ErrInvalidMAC, in)
	}
}
