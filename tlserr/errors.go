// Package tlserr defines the error taxonomy shared by the record layer,
// handshake state machine, and connection facade. Every fallible operation
// in this module returns either nil or an *Error carrying one of these
// Kinds, so a caller can switch on Kind instead of matching strings.
package tlserr

import "fmt"

// Kind identifies a class of failure. The numeric values are not part of
// any wire format; they only need to be stable within a process.
type Kind int

const (
	// Framing
	InvalidRecordType Kind = iota
	InvalidRecordVersion
	BadRecordVersion
	UnknownHandshakeMessageType
	HandshakeMessageTooLong
	TruncatedHandshakeMessage
	HandshakeTrailingData
	InvalidHandshakeMessage
	RecordTooLarge

	// Negotiation
	UnsupportedServerVersion
	UnsupportedCipherSuite
	UnsupportedCompressionMethod
	NoPossibleCipherSuites

	// Sequence
	UnexpectedHandshakeMessage
	UnneededGet
	NotReadyToSendApplicationData
	UnexpectedApplicationData

	// Cryptography
	BadMAC
	BadVerify
	EncryptPKCS1Failed
	SizeEncryptPKCS1Failed
	CannotParseCertificate
	SequenceNumberOverflow
	RecordTooLongToEncrypt

	// Environment
	EpochSecondsFailed
	RandomBytesFailed

	// Alerts
	AlertCloseNotify
	AlertUnexpectedMessage
	AlertBadRecordMAC
	AlertDecryptionFailed
	AlertRecordOverflow
	AlertDecompressionFailure
	AlertHandshakeFailure
	AlertNoCertificate
	AlertBadCertificate
	AlertUnsupportedCertificate
	AlertCertificateRevoked
	AlertCertificateExpired
	AlertCertificateUnknown
	AlertIllegalParameter
	AlertUnknownCA
	AlertAccessDenied
	AlertDecodeError
	AlertDecryptError
	AlertExportRestriction
	AlertProtocolVersion
	AlertInsufficientSecurity
	AlertInternalError
	AlertUserCanceled
	AlertNoRenegotiation
	AlertUnsupportedExtension
	UnknownFatalAlert
	InvalidAlertLevel
	IncorrectAlertLength

	// Catch-all
	Internal
)

var kindStrings = map[Kind]string{
	InvalidRecordType:             "record has invalid content type",
	InvalidRecordVersion:          "record has invalid protocol version",
	BadRecordVersion:              "record version disagrees with the version pinned by earlier records",
	UnknownHandshakeMessageType:   "handshake message has unknown type",
	HandshakeMessageTooLong:       "handshake message exceeds the maximum permitted length",
	TruncatedHandshakeMessage:     "non-handshake record interrupted an in-progress handshake message",
	HandshakeTrailingData:         "handshake message has trailing data after its fields",
	InvalidHandshakeMessage:       "handshake message is malformed",
	RecordTooLarge:                "record length exceeds the maximum permitted size",
	UnsupportedServerVersion:      "server selected an unsupported protocol version",
	UnsupportedCipherSuite:        "server selected a cipher suite that was not offered",
	UnsupportedCompressionMethod:  "server selected a compression method other than null",
	NoPossibleCipherSuites:        "no cipher suites are enabled",
	UnexpectedHandshakeMessage:    "handshake message is not permitted in the current state",
	UnneededGet:                   "Get called while there is nothing to send",
	NotReadyToSendApplicationData: "Encrypt called before the handshake completed",
	UnexpectedApplicationData:     "application data received before the handshake completed",
	BadMAC:                        "record MAC verification failed",
	BadVerify:                     "Finished verify_data did not match",
	EncryptPKCS1Failed:            "RSA PKCS#1 encryption of the premaster secret failed",
	SizeEncryptPKCS1Failed:        "could not determine the RSA ciphertext size",
	CannotParseCertificate:        "server certificate could not be parsed",
	SequenceNumberOverflow:        "record sequence number exhausted",
	RecordTooLongToEncrypt:        "application data record is too long to encrypt in one record",
	EpochSecondsFailed:            "call to EpochSeconds failed",
	RandomBytesFailed:             "call to RandomBytes failed",
	AlertCloseNotify:              "peer sent close_notify",
	AlertUnexpectedMessage:        "peer alert: unexpected_message",
	AlertBadRecordMAC:             "peer alert: bad_record_mac",
	AlertDecryptionFailed:         "peer alert: decryption_failed",
	AlertRecordOverflow:           "peer alert: record_overflow",
	AlertDecompressionFailure:     "peer alert: decompression_failure",
	AlertHandshakeFailure:         "peer alert: handshake_failure",
	AlertNoCertificate:            "peer alert: no_certificate",
	AlertBadCertificate:           "peer alert: bad_certificate",
	AlertUnsupportedCertificate:   "peer alert: unsupported_certificate",
	AlertCertificateRevoked:       "peer alert: certificate_revoked",
	AlertCertificateExpired:       "peer alert: certificate_expired",
	AlertCertificateUnknown:       "peer alert: certificate_unknown",
	AlertIllegalParameter:         "peer alert: illegal_parameter",
	AlertUnknownCA:                "peer alert: unknown_ca",
	AlertAccessDenied:             "peer alert: access_denied",
	AlertDecodeError:              "peer alert: decode_error",
	AlertDecryptError:             "peer alert: decrypt_error",
	AlertExportRestriction:        "peer alert: export_restriction",
	AlertProtocolVersion:          "peer alert: protocol_version",
	AlertInsufficientSecurity:     "peer alert: insufficient_security",
	AlertInternalError:            "peer alert: internal_error",
	AlertUserCanceled:             "peer alert: user_canceled",
	AlertNoRenegotiation:          "peer alert: no_renegotiation",
	AlertUnsupportedExtension:     "peer alert: unsupported_extension",
	UnknownFatalAlert:             "peer sent an alert with an unrecognized code",
	InvalidAlertLevel:             "alert record has invalid level",
	IncorrectAlertLength:          "alert record has the wrong length",
	Internal:                      "internal error",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the concrete error type returned by every operation in this
// module. Most errors poison the Connection that produced them: see the
// doc on handshake.Engine for which ones do.
type Error struct {
	Kind Kind
	// Detail, if non-empty, adds context beyond the Kind (e.g. a field
	// name or an offset). It is never part of Is() comparisons.
	Detail string
}

func New(k Kind) *Error {
	return &Error{Kind: k}
}

func Newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Detail: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Detail)
}

// Is lets errors.Is(err, tlserr.New(SomeKind)) match by Kind, ignoring
// Detail, so callers can compare against a freshly constructed sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
