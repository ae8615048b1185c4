package records

import (
	"testing"

	"github.com/mkobetic/okapi"
)

// TestSSL30MACMatchesIndependentlyComputedDigest rebuilds the double-hash
// construction by hand, MD5(key||pad2||MD5(key||pad1||message)), and checks
// it against ssl30MAC's own output, rather than trusting the type to verify
// itself.
func TestSSL30MACMatchesIndependentlyComputedDigest(t *testing.T) {
	key := []byte("mac secret")
	payload := []byte("hello")

	mac := newSSL30MAC(okapi.MD5, key)
	defer mac.Close()
	mac.Write(payload)
	got := mac.Digest()

	inner := okapi.MD5.New()
	defer inner.Close()
	inner.Write(key)
	for i := 0; i < 48; i++ {
		inner.Write([]byte{ssl30MACInnerPad})
	}
	inner.Write(payload)
	innerDigest := inner.Digest()

	outer := okapi.MD5.New()
	defer outer.Close()
	outer.Write(key)
	for i := 0; i < 48; i++ {
		outer.Write([]byte{ssl30MACOuterPad})
	}
	outer.Write(innerDigest)
	want := outer.Digest()

	assertEqualBytes(t, want, got)
}

// TestSSL30MACResetRestoresTheInnerPrefix verifies Reset lets the same
// ssl30MAC be reused for a second message without reconstructing it, which
// is how records/ssl.go's signSSL30/verifySSL30 drive it across records.
func TestSSL30MACResetRestoresTheInnerPrefix(t *testing.T) {
	key := []byte("mac secret")

	mac := newSSL30MAC(okapi.MD5, key)
	defer mac.Close()

	mac.Write([]byte("first message"))
	first := mac.Digest()

	mac.Reset()
	mac.Write([]byte("first message"))
	second := mac.Digest()

	assertEqualBytes(t, first, second)
}
