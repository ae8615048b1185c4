package handshake

import "github.com/Bhanditz/tlsclient/records"

// Extension numbers this package emits or recognizes. Session tickets and
// snap-start are explicit non-goals; every other extension the server
// might send back is silently ignored, matching how an unrecognized
// ServerHello extension is meant to be handled.
const (
	extRenegotiationInfo uint16 = 65281
	extServerName        uint16 = 0
	sniHostNameType      uint8  = 0
)

// marshalClientHelloExtensions writes the extensions block content (not
// including its own length prefix) for a ClientHello: an empty
// renegotiation_info (RFC 5746 §3.3, since this module never renegotiates)
// and, if hostName is set, a server_name extension (RFC 3546 §3.1).
func marshalClientHelloExtensions(sink *records.Sink, hostName string) {
	sink.U16(extRenegotiationInfo)
	body := sink.VariableLengthBlock(2)
	body.U8(0) // renegotiated_connection length: none
	body.Close()

	if hostName == "" {
		return
	}

	sink.U16(extServerName)
	sniBody := sink.VariableLengthBlock(2)
	list := sniBody.VariableLengthBlock(2)
	list.U8(sniHostNameType)
	name := list.VariableLengthBlock(2)
	name.Append([]byte(hostName))
	name.Close()
	list.Close()
	sniBody.Close()
}

// processServerHelloExtensions walks the server's extensions block. It
// only reacts to renegotiation_info, recording that the server understood
// the signal; every other extension (including an echoed server_name) is
// skipped without inspection.
func processServerHelloExtensions(extensions *records.Buffer, gotRenegotiationInfo *bool) error {
	for extensions.Remaining() > 0 {
		extType, ok := extensions.U16()
		if !ok {
			return errInvalidHandshakeMessage()
		}
		body, ok := extensions.VariableLength(2)
		if !ok {
			return errInvalidHandshakeMessage()
		}
		if extType == extRenegotiationInfo {
			*gotRenegotiationInfo = true
		}
		_ = body
	}
	return nil
}
