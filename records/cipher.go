package records

import (
	"crypto/subtle"

	"github.com/mkobetic/okapi"
)

// CipherKind distinguishes the record-protection modes this package
// implements. Adapted from the teacher's CipherKind; AEAD is left
// unimplemented, as it was in the teacher, since none of the suites
// spec.md negotiates need it.
type CipherKind int

const (
	streamKind CipherKind = iota
	blockKind
)

// Random is the minimal randomness capability a Cipher needs to generate
// an explicit IV. It is satisfied by tlsctx.Context, so that all
// randomness in this module flows through the one caller-supplied source
// spec.md §6 names, instead of a second, okapi-internal one.
type Random interface {
	RandomBytes(buf []byte) bool
}

// CipherSuite is one entry in the catalog: everything needed to offer a
// suite in ClientHello and, once chosen, build the Cipher that will
// protect the connection.
type CipherSuite struct {
	Name   string
	Value  uint16
	Flags  uint32
	kind   CipherKind
	cipher okapi.CipherSpec // nil for a null cipher
	KeyLen int
	mac    okapi.HashSpec
	MACLen int
	IVLen  int
}

// Flag bits describing the algorithm families a suite needs; ORed against
// a Connection's enabled set to decide whether the suite may be offered.
const (
	FlagRSA uint32 = 1 << iota
	FlagRC4
	Flag3DES
	FlagAES
	FlagMD5
	FlagSHA
	FlagSHA256
)

// AllCipherSuites returns the catalog this package can negotiate, ordered
// from strongest to weakest preference. RC4 entries sort last: they exist
// for interoperability with legacy peers, not because they should be
// preferred.
func AllCipherSuites() []CipherSuite {
	return []CipherSuite{
		{Name: "TLS_RSA_WITH_AES_256_CBC_SHA256", Value: 0x003D, Flags: FlagRSA | FlagAES | FlagSHA256, kind: blockKind, cipher: okapi.AES_CBC, KeyLen: 32, mac: okapi.SHA256, MACLen: 32, IVLen: 16},
		{Name: "TLS_RSA_WITH_AES_128_CBC_SHA256", Value: 0x003C, Flags: FlagRSA | FlagAES | FlagSHA256, kind: blockKind, cipher: okapi.AES_CBC, KeyLen: 16, mac: okapi.SHA256, MACLen: 32, IVLen: 16},
		{Name: "TLS_RSA_WITH_AES_256_CBC_SHA", Value: 0x0035, Flags: FlagRSA | FlagAES | FlagSHA, kind: blockKind, cipher: okapi.AES_CBC, KeyLen: 32, mac: okapi.SHA1, MACLen: 20, IVLen: 16},
		{Name: "TLS_RSA_WITH_AES_128_CBC_SHA", Value: 0x002F, Flags: FlagRSA | FlagAES | FlagSHA, kind: blockKind, cipher: okapi.AES_CBC, KeyLen: 16, mac: okapi.SHA1, MACLen: 20, IVLen: 16},
		{Name: "TLS_RSA_WITH_3DES_EDE_CBC_SHA", Value: 0x000A, Flags: FlagRSA | Flag3DES | FlagSHA, kind: blockKind, cipher: okapi.DES3_CBC, KeyLen: 24, mac: okapi.SHA1, MACLen: 20, IVLen: 8},
		{Name: "TLS_RSA_WITH_RC4_128_SHA", Value: 0x0005, Flags: FlagRSA | FlagRC4 | FlagSHA, kind: streamKind, cipher: okapi.RC4, KeyLen: 16, mac: okapi.SHA1, MACLen: 20},
		{Name: "TLS_RSA_WITH_RC4_128_MD5", Value: 0x0004, Flags: FlagRSA | FlagRC4 | FlagMD5, kind: streamKind, cipher: okapi.RC4, KeyLen: 16, mac: okapi.MD5, MACLen: 16},
	}
}

// FindCipherSuite returns the catalog entry with the given wire value, or
// ok=false if none matches.
func FindCipherSuite(value uint16) (CipherSuite, bool) {
	for _, cs := range AllCipherSuites() {
		if cs.Value == value {
			return cs, true
		}
	}
	return CipherSuite{}, false
}

// Cipher is a per-direction symmetric cipher plus MAC state, as spec.md
// §4.5 describes: Seal wraps a plaintext record body for the wire, Open
// authenticates and unwraps ciphertext taken off the wire, already stripped
// of its MAC and any padding.
type Cipher interface {
	Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error)
	Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error)
	Close()
}

// New builds a Cipher for this suite. version selects SSLv3's non-HMAC MAC
// and padding rules, TLS 1.0's implicit (chained) IV, and TLS 1.1/1.2's
// explicit per-record IV. rnd supplies the explicit IV's randomness on
// encrypt; it is unused, and may be nil, on decrypt.
func (cs CipherSuite) New(version ProtocolVersion, key, iv, macKey []byte, encrypt bool, rnd Random) Cipher {
	if version == SSL30 {
		var cipher okapi.Cipher
		if cs.cipher != nil {
			cipher = cs.cipher.New(key, iv, encrypt)
		}
		var mac okapi.Hash
		if cs.mac != nil {
			mac = newSSL30MAC(cs.mac, macKey)
		}
		if cs.kind == streamKind {
			return &ssl30StreamCipher{cipher: cipher, mac: mac}
		}
		return &ssl30BlockCipher{cipher: cipher, mac: mac}
	}

	var mac okapi.Hash
	if cs.mac != nil {
		mac = okapi.HMAC.New(cs.mac, macKey)
	}

	switch cs.kind {
	case streamKind:
		var cipher okapi.Cipher
		if cs.cipher != nil {
			cipher = cs.cipher.New(key, iv, encrypt)
		}
		return &streamCipher{cipher: cipher, mac: mac}
	case blockKind:
		if version == TLS10 {
			var cipher okapi.Cipher
			if cs.cipher != nil {
				cipher = cs.cipher.New(key, iv, encrypt)
			}
			return &tls10BlockCipher{cipher: cipher, mac: mac}
		}
		// TLS 1.1/1.2 use an explicit, per-record IV rather than a single
		// chained one, so the okapi.Cipher itself gets built fresh for
		// every record instead of once here.
		return &blockCipher{spec: cs.cipher, key: key, encrypt: encrypt, ivLen: cs.IVLen, mac: mac, rnd: rnd}
	default:
		return nil
	}
}

// signTLS computes an HMAC over seqNum||header||plaintext and appends it,
// after rewriting header's length field to the fragment length (never the
// appended digest), matching RFC 5246 §6.2.3.1.
func signTLS(mac okapi.Hash, header [5]byte, seqNum uint64, buf []byte) []byte {
	if mac == nil {
		return buf
	}
	putUint16(header[3:5], uint16(len(buf)))
	writeSeqAndHeader(mac, seqNum, header)
	mac.Write(buf)
	digest := mac.Digest()
	mac.Reset()
	return append(buf, digest...)
}

func verifyTLS(mac okapi.Hash, header [5]byte, seqNum uint64, buf []byte) ([]byte, error) {
	if mac == nil {
		return buf, nil
	}
	if len(buf) < mac.Size() {
		return nil, errBadMAC()
	}
	plainLen := len(buf) - mac.Size()
	putUint16(header[3:5], uint16(plainLen))
	writeSeqAndHeader(mac, seqNum, header)
	mac.Write(buf[:plainLen])
	digest := mac.Digest()
	mac.Reset()
	if subtle.ConstantTimeCompare(digest, buf[plainLen:]) != 1 {
		return nil, errBadMAC()
	}
	return buf[:plainLen], nil
}

func writeSeqAndHeader(mac okapi.Hash, seqNum uint64, header [5]byte) {
	var seq [8]byte
	putUint64(seq[:], seqNum)
	mac.Write(seq[:])
	mac.Write(header[:])
}

func putUint16(b []byte, v uint16) { b[0] = byte(v >> 8); b[1] = byte(v) }

func putUint64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func updateInPlace(cipher okapi.Cipher, buf []byte) {
	if cipher == nil {
		return
	}
	ins, outs := cipher.Update(buf, buf)
	assert(ins == len(buf) && outs == len(buf), "cipher update size mismatch")
}

func closeCipher(c okapi.Cipher) {
	if c != nil {
		c.Close()
	}
}

func closeHash(h okapi.Hash) {
	if h != nil {
		h.Close()
	}
}

// streamCipher implements TLS's RC4+HMAC construction: sign then encrypt,
// decrypt then verify, no padding.
type streamCipher struct {
	cipher okapi.Cipher
	mac    okapi.Hash
}

func (c *streamCipher) Seal(header [5]byte, seqNum uint64, plaintext []byte) ([]byte, error) {
	buf := signTLS(c.mac, header, seqNum, append([]byte(nil), plaintext...))
	updateInPlace(c.cipher, buf)
	return buf, nil
}

func (c *streamCipher) Open(header [5]byte, seqNum uint64, ciphertext []byte) ([]byte, error) {
	buf := append([]byte(nil), ciphertext...)
	updateInPlace(c.cipher, buf)
	return verifyTLS(c.mac, header, seqNum, buf)
}

func (c *streamCipher) Close() {
	closeCipher(c.cipher)
	closeHash(c.mac)
}
