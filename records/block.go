package records

import (
	"github.com/mkobetic/okapi"
)

// addPaddingTLS pads buf to a multiple of blockSize using TLS's scheme
// (RFC 5246 §6.2.3.2): every pad byte, including the final length byte,
// holds the pad length minus one. A message that already lands on a block
// boundary still gets a full block of padding.
func addPaddingTLS(blockSize int, buf []byte) []byte {
	pad := blockSize - len(buf)%blockSize
	padded := append(buf, make([]byte, pad)...)
	for i := len(buf); i < len(padded); i++ {
		padded[i] = byte(pad - 1)
	}
	return padded
}

// removePaddingTLS validates and strips TLS padding, returning the
// unpadded buffer or an error if the padding is malformed.
func removePaddingTLS(blockSize int, buf []byte) ([]byte, error) {
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return nil, errBadMAC()
	}
	pad := int(buf[len(buf)-1])
	if pad+1 > len(buf) {
		return nil, errBadMAC()
	}
	for _, b := range buf[len(buf)-pad-1:] {
		if int(b) != pad {
			return nil, errBadMAC()
		}
	}
	return buf[:len(buf)-pad-1], nil
}

// tls10BlockCipher implements TLS 1.0's CBC construction, which chains
// each record's IV from the previous record's final ciphertext block
// instead of carrying an explicit one — the same weakness BEAST later
// exploited, but spec.md targets protocol compatibility, not hardening.
type tls10BlockCipher struct {
	cipher okapi.Cipher
	mac    okapi.Hash
}

func (c *tls10BlockCipher) Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error) {
	buf := signTLS(c.mac, header, seqNum, append([]byte(nil), plaintext...))
	buf = addPaddingTLS(c.cipher.BlockSize(), buf)
	updateInPlace(c.cipher, buf)
	return buf, nil
}

func (c *tls10BlockCipher) Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error) {
	buf := append([]byte(nil), ciphertext...)
	updateInPlace(c.cipher, buf)
	buf, err := removePaddingTLS(c.cipher.BlockSize(), buf)
	if err != nil {
		return nil, err
	}
	return verifyTLS(c.mac, header, seqNum, buf)
}

func (c *tls10BlockCipher) Close() {
	closeCipher(c.cipher)
	closeHash(c.mac)
}

// blockCipher implements TLS 1.1/1.2's CBC construction: a fresh random
// IV precedes every record's ciphertext instead of chaining from the
// previous one, so a new okapi.Cipher is built per record rather than
// once at construction time (see spec, RFC 5246 §6.2.3.2).
type blockCipher struct {
	spec    okapi.CipherSpec
	key     []byte
	encrypt bool
	ivLen   int
	mac     okapi.Hash
	rnd     Random
}

func (c *blockCipher) Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error) {
	iv := make([]byte, c.ivLen)
	if c.rnd == nil || !c.rnd.RandomBytes(iv) {
		return nil, errRandomBytesFailed()
	}
	buf := signTLS(c.mac, header, seqNum, append([]byte(nil), plaintext...))
	cipher := c.spec.New(c.key, iv, true)
	defer cipher.Close()
	buf = addPaddingTLS(cipher.BlockSize(), buf)
	updateInPlace(cipher, buf)
	return append(iv, buf...), nil
}

func (c *blockCipher) Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < c.ivLen {
		return nil, errBadMAC()
	}
	iv, body := ciphertext[:c.ivLen], ciphertext[c.ivLen:]
	buf := append([]byte(nil), body...)
	cipher := c.spec.New(c.key, iv, false)
	defer cipher.Close()
	updateInPlace(cipher, buf)
	buf, err := removePaddingTLS(cipher.BlockSize(), buf)
	if err != nil {
		return nil, err
	}
	return verifyTLS(c.mac, header, seqNum, buf)
}

func (c *blockCipher) Close() {
	closeHash(c.mac)
}
