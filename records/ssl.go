package records

import (
	"crypto/subtle"

	"github.com/mkobetic/okapi"
)

// ssl30StreamCipher implements SSLv3's MAC-then-encrypt construction with
// its own (non-HMAC) MAC, computed by ssl30MAC.
type ssl30StreamCipher struct {
	cipher okapi.Cipher
	mac    okapi.Hash
}

func (c *ssl30StreamCipher) Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error) {
	buf := signSSL30(c.mac, header, seqNum, append([]byte(nil), plaintext...))
	updateInPlace(c.cipher, buf)
	return buf, nil
}

func (c *ssl30StreamCipher) Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error) {
	buf := append([]byte(nil), ciphertext...)
	updateInPlace(c.cipher, buf)
	return verifySSL30(c.mac, header, seqNum, buf)
}

func (c *ssl30StreamCipher) Close() {
	closeCipher(c.cipher)
	closeHash(c.mac)
}

// ssl30BlockCipher additionally pads to the cipher's block size before
// encrypting; unlike TLS, SSLv3 pads with the pad length repeated but does
// not require the padding to be minimal or fully validated in content.
type ssl30BlockCipher struct {
	cipher okapi.Cipher
	mac    okapi.Hash
}

func (c *ssl30BlockCipher) Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error) {
	buf := signSSL30(c.mac, header, seqNum, append([]byte(nil), plaintext...))
	buf = addPaddingSSL30(c.cipher.BlockSize(), buf)
	updateInPlace(c.cipher, buf)
	return buf, nil
}

func (c *ssl30BlockCipher) Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error) {
	buf := append([]byte(nil), ciphertext...)
	updateInPlace(c.cipher, buf)
	buf, err := removePaddingSSL30(buf)
	if err != nil {
		return nil, err
	}
	return verifySSL30(c.mac, header, seqNum, buf)
}

func (c *ssl30BlockCipher) Close() {
	closeCipher(c.cipher)
	closeHash(c.mac)
}

// addPaddingSSL30 pads buf to a multiple of blockSize; the final byte holds
// the number of padding bytes before it, which is what removePaddingSSL30
// strips (the other pad bytes carry the same value but are never checked).
func addPaddingSSL30(blockSize int, buf []byte) []byte {
	pad := blockSize - len(buf)%blockSize
	padded := append(buf, make([]byte, pad)...)
	for i := len(buf); i < len(padded); i++ {
		padded[i] = byte(pad - 1)
	}
	return padded
}

func removePaddingSSL30(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, errBadMAC()
	}
	pad := int(buf[len(buf)-1])
	if pad+1 > len(buf) {
		return nil, errBadMAC()
	}
	return buf[:len(buf)-pad-1], nil
}

// macInput assembles SSLv3's MAC input: seq_num(8) || type(1) || length(2)
// || fragment. header carries type+version+length as they appear on the
// wire; the version is left out, and the length field is rewritten to
// describe buf before use, matching RFC 6101 §5.2.3.1.
func macInput(header [5]byte, seqNum uint64, buf []byte) []byte {
	putUint16(header[3:5], uint16(len(buf)))
	in := make([]byte, 0, 8+3+len(buf))
	var seq [8]byte
	putUint64(seq[:], seqNum)
	in = append(in, seq[:]...)
	in = append(in, header[0], header[3], header[4])
	in = append(in, buf...)
	return in
}

func signSSL30(mac okapi.Hash, header [5]byte, seqNum uint64, buf []byte) []byte {
	if mac == nil {
		return buf
	}
	mac.Write(macInput(header, seqNum, buf))
	digest := mac.Digest()
	mac.Reset()
	return append(buf, digest...)
}

func verifySSL30(mac okapi.Hash, header [5]byte, seqNum uint64, buf []byte) ([]byte, error) {
	if mac == nil {
		return buf, nil
	}
	if len(buf) < mac.Size() {
		return nil, errBadMAC()
	}
	plainLen := len(buf) - mac.Size()
	mac.Write(macInput(header, seqNum, buf[:plainLen]))
	digest := mac.Digest()
	mac.Reset()
	if subtle.ConstantTimeCompare(digest, buf[plainLen:]) != 1 {
		return nil, errBadMAC()
	}
	return buf[:plainLen], nil
}

// ssl30MAC implements the non-HMAC MAC SSLv3 defines (RFC 6101 §5.2.3.1):
// an inner hash primed with key||pad_1 covers the message, then an outer
// hash covers key||pad_2||inner-digest. pad_1/pad_2 are a fixed count of
// 0x36/0x5c bytes — 48 for MD5, 40 for SHA-1 — unrelated to the hash's own
// block size, so it satisfies the okapi.Hash interface rather than being
// built from one directly.
type ssl30MAC struct {
	innerPrefix []byte
	outerPrefix []byte
	digest      []byte
	hash        okapi.Hash
}

const (
	ssl30MACInnerPad byte = 0x36
	ssl30MACOuterPad byte = 0x5c
)

func newSSL30MAC(hs okapi.HashSpec, key []byte) *ssl30MAC {
	hash := hs.New()
	padLen := 40
	if hash.Size() == 16 { // MD5 takes the longer of the two fixed pads.
		padLen = 48
	}
	m := &ssl30MAC{
		innerPrefix: ssl30MACPrefix(key, padLen, ssl30MACInnerPad, 0),
		outerPrefix: ssl30MACPrefix(key, padLen, ssl30MACOuterPad, hash.Size()),
		hash:        hash,
	}
	hash.Write(m.innerPrefix)
	return m
}

// ssl30MACPrefix returns key followed by padLen repetitions of padByte,
// with room left in the backing array to later append extraCap more bytes
// without reallocating.
func ssl30MACPrefix(key []byte, padLen int, padByte byte, extraCap int) []byte {
	prefix := make([]byte, len(key)+padLen, len(key)+padLen+extraCap)
	copy(prefix, key)
	for i := len(key); i < len(prefix); i++ {
		prefix[i] = padByte
	}
	return prefix
}

func (m *ssl30MAC) Write(b []byte) (int, error) { return m.hash.Write(b) }

func (m *ssl30MAC) Digest() []byte {
	if m.digest != nil {
		return m.digest
	}
	outer := append(m.outerPrefix, m.hash.Digest()...)
	m.hash.Reset()
	m.hash.Write(outer)
	m.digest = m.hash.Digest()
	return m.digest
}

func (m *ssl30MAC) Size() int      { return m.hash.Size() }
func (m *ssl30MAC) BlockSize() int { return m.hash.BlockSize() }

func (m *ssl30MAC) Clone() okapi.Hash {
	assert(false, "ssl30MAC.Clone is unused")
	return nil
}

func (m *ssl30MAC) Reset() {
	m.digest = nil
	m.hash.Reset()
	m.hash.Write(m.innerPrefix)
}

func (m *ssl30MAC) Close() {
	if m.hash == nil {
		return
	}
	m.hash.Close()
	m.hash = nil
}
