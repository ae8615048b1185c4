package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandom struct{ b []byte }

func (r fixedRandom) RandomBytes(buf []byte) bool {
	if len(r.b) < len(buf) {
		return false
	}
	copy(buf, r.b)
	return true
}

func header(t ContentType, v ProtocolVersion) [5]byte {
	var h [5]byte
	h[0] = byte(t)
	putUint16(h[1:3], uint16(v))
	return h
}

func TestStreamCipherRoundTrip(t *testing.T) {
	cs, ok := FindCipherSuite(0x0005) // TLS_RSA_WITH_RC4_128_SHA
	require.True(t, ok)

	key := h2b("00112233445566778899aabbccddeeff")
	macKey := h2b("0102030405060708090a0b0c0d0e0f10111213")

	enc := cs.New(TLS12, key, nil, macKey, true, nil)
	dec := cs.New(TLS12, key, nil, macKey, false, nil)
	defer enc.Close()
	defer dec.Close()

	h := header(ApplicationData, TLS12)
	plaintext := []byte("hello, tls")

	sealed, err := enc.Seal(h, 0, plaintext)
	require.NoError(t, err)

	opened, err := dec.Open(h, 0, sealed)
	require.NoError(t, err)
	assertEqualBytes(t, plaintext, opened)
}

func TestBlockCipherRoundTripWithExplicitIV(t *testing.T) {
	cs, ok := FindCipherSuite(0x002F) // TLS_RSA_WITH_AES_128_CBC_SHA
	require.True(t, ok)

	key := h2b("000102030405060708090a0b0c0d0e0f")
	macKey := h2b("000102030405060708090a0b0c0d0e0f10111213")
	iv := h2b("aabbccddeeff00112233445566778899")

	enc := cs.New(TLS12, key, nil, macKey, true, fixedRandom{iv})
	dec := cs.New(TLS12, key, nil, macKey, false, nil)
	defer enc.Close()
	defer dec.Close()

	h := header(ApplicationData, TLS12)
	plaintext := []byte("a message that spans more than one AES block")

	sealed, err := enc.Seal(h, 3, plaintext)
	require.NoError(t, err)
	assert.True(t, len(sealed) > len(plaintext))
	assertEqualBytes(t, iv, sealed[:16])

	opened, err := dec.Open(h, 3, sealed)
	require.NoError(t, err)
	assertEqualBytes(t, plaintext, opened)
}

func TestBlockCipherRejectsTamperedMAC(t *testing.T) {
	cs, _ := FindCipherSuite(0x002F)
	key := h2b("000102030405060708090a0b0c0d0e0f")
	macKey := h2b("000102030405060708090a0b0c0d0e0f10111213")
	iv := h2b("00000000000000000000000000000000")

	enc := cs.New(TLS12, key, nil, macKey, true, fixedRandom{iv})
	dec := cs.New(TLS12, key, nil, macKey, false, nil)
	defer enc.Close()
	defer dec.Close()

	h := header(ApplicationData, TLS12)
	sealed, err := enc.Seal(h, 0, []byte("attack at dawn"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = dec.Open(h, 0, sealed)
	assert.Error(t, err)
}

func TestSSL30StreamCipherRoundTrip(t *testing.T) {
	cs, ok := FindCipherSuite(0x0005)
	require.True(t, ok)

	key := h2b("00112233445566778899aabbccddeeff")
	macKey := h2b("0102030405060708090a0b0c0d0e0f10111213")

	enc := cs.New(SSL30, key, nil, macKey, true, nil)
	dec := cs.New(SSL30, key, nil, macKey, false, nil)
	defer enc.Close()
	defer dec.Close()

	h := header(ApplicationData, SSL30)
	plaintext := []byte("ssl3 payload")

	sealed, err := enc.Seal(h, 1, plaintext)
	require.NoError(t, err)

	opened, err := dec.Open(h, 1, sealed)
	require.NoError(t, err)
	assertEqualBytes(t, plaintext, opened)
}
