// Package records implements the TLS/SSLv3 record layer: wire framing
// constants, the scatter-gather Buffer/Sink pair used to parse and build
// records, the per-direction CipherSpec that seals and opens them, and the
// PRF that turns a premaster secret into a key block.
//
// The package is adapted from mkobetic/btls's records package, which
// implements the same MAC+cipher state machine against
// github.com/mkobetic/okapi; the stream-oriented Reader/Writer there are
// reworked here into an in-memory Buffer/Sink pair so a caller can hand in
// whatever bytes arrived off the wire without owning an io.Reader.
package records

import "github.com/Bhanditz/tlsclient/tlserr"

// ProtocolVersion is the two-byte version field carried by every record
// and by ClientHello/ServerHello.
type ProtocolVersion uint16

const (
	SSL30 ProtocolVersion = 0x0300
	TLS10 ProtocolVersion = 0x0301
	TLS11 ProtocolVersion = 0x0302
	TLS12 ProtocolVersion = 0x0303
)

// IsValidVersion reports whether v is one of the four versions this
// package understands.
func IsValidVersion(v ProtocolVersion) bool {
	switch v {
	case SSL30, TLS10, TLS11, TLS12:
		return true
	default:
		return false
	}
}

// ContentType is the record header's type field.
type ContentType uint8

const (
	ChangeCipherSpec ContentType = 20
	Alert            ContentType = 21
	Handshake        ContentType = 22
	ApplicationData  ContentType = 23
)

// IsValidRecordType reports whether t is one of the four record content
// types defined by TLS.
func IsValidRecordType(t ContentType) bool {
	switch t {
	case ChangeCipherSpec, Alert, Handshake, ApplicationData:
		return true
	default:
		return false
	}
}

const (
	// HeaderSize is the length of the wire record header: type(1) +
	// version(2) + length(2).
	HeaderSize = 5
	// MaxPlaintextLength is the largest plaintext fragment a record may
	// carry (RFC 5246 §6.2.1).
	MaxPlaintextLength = 1 << 14
	// MaxCiphertextLength bounds the largest ciphertext fragment,
	// allowing room for the largest MAC and block-cipher padding this
	// package supports.
	MaxCiphertextLength = MaxPlaintextLength + 2048
	// MaxHandshakeLength bounds an individual handshake message. Not
	// normative — the original C++ implementation flagged the same
	// constant "I just made this up"; 64KiB comfortably covers a
	// multi-certificate chain without letting a peer force unbounded
	// buffering.
	MaxHandshakeLength = 65536
)

// The record-type, record-version and sequence-number-overflow checks this
// package's callers need are performed in package handshake (the only
// caller, and the one that owns version pinning and sequence counters), via
// its own errInvalidRecordType/errInvalidRecordVersion/errBadRecordVersion/
// errSeqOverflow. Nothing in this package itself needs them.
func errBadMAC() error            { return tlserr.New(tlserr.BadMAC) }
func errRandomBytesFailed() error { return tlserr.New(tlserr.RandomBytesFailed) }

func assert(v bool, msg string) {
	if !v {
		panic("records: " + msg)
	}
}
