// Package handshake implements the TLS/SSLv3 client handshake state
// machine: message framing and reassembly, the running transcript hash,
// alert-to-error mapping, and the ClientHello/ServerHello/... marshalling
// and processing logic that drives a connection from SEND_PHASE_ONE to an
// established session in AWAIT_HELLO_REQUEST.
//
// Adapted in control flow from mkobetic/btls's records package (buffer
// handling, cipher wiring) and, for the state machine itself, from the
// tlsclient C++ reference implementation's handshake.cc, trimmed to the
// eight states a session resumption- and snap-start-free client needs.
package handshake

import "github.com/Bhanditz/tlsclient/tlserr"

// State names a point in the client handshake. Compared to the original
// C++ enum this drops every session-resumption, session-ticket, and
// snap-start state — those are explicit non-goals — and renames the
// remaining SEND_* states to two composite phases, since nothing ever
// observes an intermediate point between "have server's Finished-worthy
// state" and "have sent everything for this phase".
type State int

const (
	AwaitHelloRequest State = iota
	SendPhaseOne
	RecvServerHello
	RecvServerCertificate
	RecvServerHelloDone
	SendPhaseTwo
	RecvChangeCipherSpec
	RecvFinished
)

func (s State) String() string {
	switch s {
	case AwaitHelloRequest:
		return "AWAIT_HELLO_REQUEST"
	case SendPhaseOne:
		return "SEND_PHASE_ONE"
	case RecvServerHello:
		return "RECV_SERVER_HELLO"
	case RecvServerCertificate:
		return "RECV_SERVER_CERTIFICATE"
	case RecvServerHelloDone:
		return "RECV_SERVER_HELLO_DONE"
	case SendPhaseTwo:
		return "SEND_PHASE_TWO"
	case RecvChangeCipherSpec:
		return "RECV_CHANGE_CIPHER_SPEC"
	case RecvFinished:
		return "RECV_FINISHED"
	default:
		return "UNKNOWN_STATE"
	}
}

// MessageType is a handshake message's wire type byte, plus the
// package-internal pseudo-type changeCipherSpec used to admit the
// ChangeCipherSpec record into the same permitted-message table (it isn't
// really a HandshakeMessage on the wire — see DESIGN.md).
type MessageType int

const (
	HelloRequest       MessageType = 0
	ClientHello        MessageType = 1
	ServerHello        MessageType = 2
	SessionTicket      MessageType = 4
	Certificate        MessageType = 11
	ServerKeyExchange  MessageType = 12
	CertificateRequest MessageType = 13
	ServerHelloDone    MessageType = 14
	CertificateVerify  MessageType = 15
	ClientKeyExchange  MessageType = 16
	Finished           MessageType = 20

	changeCipherSpec MessageType = 0xffff
)

func isValidHandshakeType(t uint8) bool {
	switch MessageType(t) {
	case HelloRequest, ClientHello, ServerHello, Certificate, ServerKeyExchange,
		CertificateRequest, ServerHelloDone, CertificateVerify, ClientKeyExchange, Finished:
		return true
	default:
		return false
	}
}

var permittedMessages = map[State][]MessageType{
	AwaitHelloRequest:     {HelloRequest},
	RecvServerHello:       {ServerHello},
	RecvServerCertificate: {Certificate},
	RecvServerHelloDone:   {ServerHelloDone},
	RecvChangeCipherSpec:  {changeCipherSpec},
	RecvFinished:          {Finished},
}

func isPermitted(state State, t MessageType) bool {
	for _, m := range permittedMessages[state] {
		if m == t {
			return true
		}
	}
	return false
}

func errUnexpectedHandshakeMessage() error {
	return tlserr.New(tlserr.UnexpectedHandshakeMessage)
}
