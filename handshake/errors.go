package handshake

import "github.com/Bhanditz/tlsclient/tlserr"

func errInvalidHandshakeMessage() error   { return tlserr.New(tlserr.InvalidHandshakeMessage) }
func errHandshakeTrailingData() error     { return tlserr.New(tlserr.HandshakeTrailingData) }
func errUnsupportedServerVersion() error  { return tlserr.New(tlserr.UnsupportedServerVersion) }
func errUnsupportedCipherSuite() error    { return tlserr.New(tlserr.UnsupportedCipherSuite) }
func errUnsupportedCompression() error    { return tlserr.New(tlserr.UnsupportedCompressionMethod) }
func errNoPossibleCipherSuites() error    { return tlserr.New(tlserr.NoPossibleCipherSuites) }
func errCannotParseCertificate() error    { return tlserr.New(tlserr.CannotParseCertificate) }
func errBadVerify() error                 { return tlserr.New(tlserr.BadVerify) }
func errEpochSecondsFailed() error        { return tlserr.New(tlserr.EpochSecondsFailed) }
func errRandomBytesFailed() error         { return tlserr.New(tlserr.RandomBytesFailed) }
func errSizeEncryptPKCS1Failed() error    { return tlserr.New(tlserr.SizeEncryptPKCS1Failed) }
func errEncryptPKCS1Failed() error        { return tlserr.New(tlserr.EncryptPKCS1Failed) }
func errUnknownHandshakeMessageType() error {
	return tlserr.New(tlserr.UnknownHandshakeMessageType)
}
func errHandshakeMessageTooLong() error { return tlserr.New(tlserr.HandshakeMessageTooLong) }
func errTruncatedHandshakeMessage() error {
	return tlserr.New(tlserr.TruncatedHandshakeMessage)
}
func errInvalidRecordType() error    { return tlserr.New(tlserr.InvalidRecordType) }
func errInvalidRecordVersion() error { return tlserr.New(tlserr.InvalidRecordVersion) }
func errBadRecordVersion() error     { return tlserr.New(tlserr.BadRecordVersion) }
func errBadMAC() error               { return tlserr.New(tlserr.BadMAC) }
func errSeqOverflow() error          { return tlserr.New(tlserr.SequenceNumberOverflow) }

// maxSeqNum is the sequence number a read or write counter must never pass;
// reaching it fails the connection closed instead of silently wrapping, the
// same guard the teacher's Reader/Writer apply after every increment.
const maxSeqNum uint64 = 0xFFFFFFFFFFFFFFFF
