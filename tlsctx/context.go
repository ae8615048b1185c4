// Package tlsctx declares the capabilities a caller of this module must
// supply: randomness, wall-clock time, and certificate/RSA operations.
// This module never reaches into crypto/rand, time, or crypto/x509 itself
// for these — see SPEC_FULL.md for why they stay external collaborators.
package tlsctx

// Certificate is a parsed server certificate capable of RSA PKCS#1
// encryption against the public key it carries.
type Certificate interface {
	// SizeEncryptPKCS1 returns the size, in bytes, of the ciphertext that
	// EncryptPKCS1 will produce. A return of 0 signals failure.
	SizeEncryptPKCS1() int
	// EncryptPKCS1 RSA/PKCS#1-encrypts in and writes the result to out,
	// which must be exactly SizeEncryptPKCS1() bytes long.
	EncryptPKCS1(out, in []byte) bool
}

// Context supplies the environment facts and cryptographic backend the
// handshake needs but does not implement itself.
type Context interface {
	// EpochSeconds returns seconds since the Unix epoch. A return of 0
	// signals failure.
	EpochSeconds() uint64
	// RandomBytes fills buf with cryptographically strong random bytes,
	// returning false on failure.
	RandomBytes(buf []byte) bool
	// ParseCertificate parses a DER-encoded certificate taken verbatim
	// from the wire. A nil Certificate signals failure.
	ParseCertificate(der []byte) Certificate
}
