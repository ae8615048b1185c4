package handshake

import (
	"crypto/subtle"

	"github.com/Bhanditz/tlsclient/records"
	"github.com/Bhanditz/tlsclient/tlserr"
)

// scsv is the signaling cipher suite value, RFC 5746 §3.3: an SSLv3 ClientHello has no
// extensions, so secure renegotiation support is instead signaled by
// including this fake cipher suite value in the offered list.
const scsv uint16 = 0xff00

// marshalClientHello builds a ClientHello handshake message (type, 3-byte
// length, body) as a standalone byte slice — not yet framed into a record
// or sealed by a cipher, since neither exists yet at this point in the
// handshake.
func (e *Engine) marshalClientHello() ([]byte, error) {
	now := e.ctx.EpochSeconds()
	if now == 0 {
		return nil, errEpochSecondsFailed()
	}
	e.clientRandom[0] = byte(now >> 24)
	e.clientRandom[1] = byte(now >> 16)
	e.clientRandom[2] = byte(now >> 8)
	e.clientRandom[3] = byte(now)
	if !e.ctx.RandomBytes(e.clientRandom[4:]) {
		return nil, errRandomBytesFailed()
	}

	sink := records.NewSink()
	msg := sink.HandshakeMessage(uint8(ClientHello))
	msg.U16(uint16(e.versionToOffer()))
	msg.Append(e.clientRandom[:])
	msg.U8(0) // session id: none, no resumption

	suites := msg.VariableLengthBlock(2)
	if e.sslv3 {
		suites.U16(scsv)
	}
	written := 0
	for _, cs := range records.AllCipherSuites() {
		if cs.Flags&e.cipherSuiteFlagsEnabled == cs.Flags {
			suites.U16(cs.Value)
			written++
		}
	}
	suites.Close()
	if written == 0 {
		return nil, errNoPossibleCipherSuites()
	}

	msg.U8(1) // one compression method
	msg.U8(0) // null

	if !e.sslv3 {
		ext := msg.VariableLengthBlock(2)
		marshalClientHelloExtensions(ext, e.hostName)
		ext.Close()
	}

	msg.Close()
	return sink.Bytes(), nil
}

// marshalClientKeyExchange builds a 48-byte RSA premaster secret,
// encrypts it against the server's public key, and derives the master
// secret and both directions' pending cipher state from it.
func (e *Engine) marshalClientKeyExchange() ([]byte, error) {
	var premaster [48]byte
	offered := e.versionToOffer()
	premaster[0] = byte(offered >> 8)
	premaster[1] = byte(offered)
	if !e.ctx.RandomBytes(premaster[2:]) {
		return nil, errRandomBytesFailed()
	}

	size := e.serverCert.SizeEncryptPKCS1()
	if size == 0 {
		return nil, errSizeEncryptPKCS1Failed()
	}

	sink := records.NewSink()
	msg := sink.HandshakeMessage(uint8(ClientKeyExchange))

	// SSLv3 doesn't prefix the encrypted premaster secret with a length;
	// TLS does.
	var encrypted []byte
	if e.version == records.SSL30 {
		encrypted = msg.Block(size)
	} else {
		body := msg.VariableLengthBlock(2)
		encrypted = body.Block(size)
		body.Close()
	}
	if !e.serverCert.EncryptPKCS1(encrypted, premaster[:]) {
		return nil, errEncryptPKCS1Failed()
	}
	msg.Close()

	masterSecret := records.MasterSecret(e.version, premaster[:], e.clientRandom[:], e.serverRandom[:])
	e.masterSecret = masterSecret
	kb := records.KeysFromMasterSecret(e.version, e.cipherSuite, masterSecret, e.clientRandom[:], e.serverRandom[:])

	e.pendingWriteCipherSpec = e.cipherSuite.New(e.version, kb.ClientKey, kb.ClientIV, kb.ClientWriteMACKey, true, e.ctx)
	e.pendingReadCipherSpec = e.cipherSuite.New(e.version, kb.ServerKey, kb.ServerIV, kb.ServerWriteMACKey, false, e.ctx)

	return sink.Bytes(), nil
}

// marshalFinished builds the client Finished message from the transcript
// hash accumulated so far (which does not yet include this message).
func (e *Engine) marshalFinished() []byte {
	verifyData := e.handshakeHash.ClientVerifyData(e.masterSecret)
	sink := records.NewSink()
	msg := sink.HandshakeMessage(uint8(Finished))
	msg.Append(verifyData)
	msg.Close()
	return sink.Bytes()
}

// addHandshakeMessageToHash feeds the reconstructed 4-byte handshake
// header (type + 3-byte length) and body into the running transcript,
// exactly as the message appeared on the wire.
func (e *Engine) addHandshakeMessageToHash(t MessageType, body []byte) {
	var header [4]byte
	header[0] = byte(t)
	header[1] = byte(len(body) >> 16)
	header[2] = byte(len(body) >> 8)
	header[3] = byte(len(body))
	e.handshakeHash.Update(header[:])
	e.handshakeHash.Update(body)
}

// ProcessHandshakeMessage validates t against the current state's
// whitelist, feeds it into the transcript hash (unless it's one of the
// three messages hashed specially or not at all — see hash.go and
// processServerHello), and dispatches to the type-specific handler.
func (e *Engine) ProcessHandshakeMessage(t MessageType, in *records.Buffer) error {
	if !isPermitted(e.state, t) {
		return errUnexpectedHandshakeMessage()
	}

	// Captured before any field is parsed out of in, since ServerHello's
	// own handler consumes fields from in before it can hash them: this
	// must reflect the whole message body, not whatever remains once
	// parsing is done.
	body := in.Flatten()

	if e.handshakeHash != nil && t != Finished && t != ServerHello && t != changeCipherSpec {
		e.addHandshakeMessageToHash(t, body)
	}

	switch t {
	case ServerHello:
		return e.processServerHello(in, body)
	case Certificate:
		return e.processServerCertificate(in)
	case ServerHelloDone:
		return e.processServerHelloDone(in)
	case changeCipherSpec:
		b, ok := in.U8()
		if !ok || b != 1 || in.Remaining() != 0 {
			return errUnexpectedHandshakeMessage()
		}
		e.readCipherSpec = e.pendingReadCipherSpec
		e.pendingReadCipherSpec = nil
		e.readSeqNum = 0
		e.state = RecvFinished
		return nil
	case Finished:
		return e.processServerFinished(in)
	default:
		return tlserr.New(tlserr.Internal)
	}
}

func (e *Engine) processServerHello(in *records.Buffer, body []byte) error {
	wireVersion, ok := in.U16()
	if !ok {
		return errInvalidHandshakeMessage()
	}
	version := records.ProtocolVersion(wireVersion)
	if !records.IsValidVersion(version) {
		return errUnsupportedServerVersion()
	}
	// The record layer already pinned e.version from this same record's
	// header by the time the reassembler handed this message over.
	if e.versionEstablished && e.version != version {
		return errInvalidHandshakeMessage()
	}

	if !in.ReadInto(e.serverRandom[:]) {
		return errInvalidHandshakeMessage()
	}

	if _, ok := in.VariableLength(1); !ok { // session id, ignored: no resumption
		return errInvalidHandshakeMessage()
	}

	suiteValue, ok := in.U16()
	if !ok {
		return errInvalidHandshakeMessage()
	}
	suite, ok := records.FindCipherSuite(suiteValue)
	if !ok || suite.Flags&e.cipherSuiteFlagsEnabled != suite.Flags {
		return errUnsupportedCipherSuite()
	}
	e.cipherSuite = suite
	e.cipherSuiteChosen = true

	compression, ok := in.U8()
	if !ok {
		return errInvalidHandshakeMessage()
	}
	if compression != 0 {
		return errUnsupportedCompression()
	}

	e.handshakeHash = NewHash(version)
	// The ClientHello's hash algorithm wasn't known until now; feed the
	// message we already sent (minus its 5-byte record header, which is
	// exactly what lastBuffer holds) in before this one.
	if len(e.lastBuffer) > 0 {
		e.handshakeHash.Update(e.lastBuffer)
	}
	e.addHandshakeMessageToHash(ServerHello, body)

	if in.Remaining() == 0 {
		e.state = RecvServerCertificate
		return nil
	}

	extensions, ok := in.VariableLength(2)
	if !ok {
		return errInvalidHandshakeMessage()
	}
	if err := processServerHelloExtensions(extensions, &e.gotRenegotiationInfo); err != nil {
		return err
	}
	if in.Remaining() != 0 {
		return errHandshakeTrailingData()
	}

	e.state = RecvServerCertificate
	return nil
}

func (e *Engine) processServerCertificate(in *records.Buffer) error {
	certs, ok := in.VariableLength(3)
	if !ok {
		return errInvalidHandshakeMessage()
	}

	var chain [][]byte
	for certs.Remaining() > 0 {
		cert, ok := certs.VariableLength(3)
		if !ok {
			return errInvalidHandshakeMessage()
		}
		if cert.Remaining() == 0 {
			return errInvalidHandshakeMessage()
		}
		chain = append(chain, cert.Flatten())
	}
	if len(chain) == 0 {
		return errInvalidHandshakeMessage()
	}
	if in.Remaining() != 0 {
		return errHandshakeTrailingData()
	}

	e.serverCertificates = chain
	cert := e.ctx.ParseCertificate(chain[0])
	if cert == nil {
		return errCannotParseCertificate()
	}
	e.serverCert = cert
	e.state = RecvServerHelloDone
	return nil
}

func (e *Engine) processServerHelloDone(in *records.Buffer) error {
	if in.Remaining() != 0 {
		return errHandshakeTrailingData()
	}
	e.state = SendPhaseTwo
	return nil
}

func (e *Engine) processServerFinished(in *records.Buffer) error {
	expected := e.handshakeHash.ServerVerifyData(e.masterSecret)
	if in.Remaining() != len(expected) {
		return errBadVerify()
	}
	got, ok := in.Read(len(expected))
	if !ok {
		return tlserr.New(tlserr.Internal)
	}
	if subtle.ConstantTimeCompare(expected, got) != 1 {
		return errBadVerify()
	}

	e.state = AwaitHelloRequest
	e.applicationDataAllowed = true
	return nil
}
