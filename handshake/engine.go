package handshake

import (
	"github.com/Bhanditz/tlsclient/records"
	"github.com/Bhanditz/tlsclient/tlsctx"
	"github.com/Bhanditz/tlsclient/tlserr"
)

// Engine drives one client handshake and, once it completes, the
// application-data cipher on both directions. It has no I/O of its own:
// Process consumes bytes a caller received off the wire and Get produces
// bytes the caller must send, exactly the "give bytes / take bytes" model
// described for the connection facade this type backs.
//
// Once Get, Process or Encrypt fails while building, sealing or processing
// records, Engine is poisoned: err is latched and every subsequent call
// returns it without touching state again, matching the ordering guarantee
// that a connection which has seen a fatal condition never encrypts or
// decrypts another record. The call-order errors UnneededGet,
// NotReadyToSendApplicationData and RecordTooLongToEncrypt are returned
// without being latched.
type Engine struct {
	ctx tlsctx.Context

	sslv3      bool
	hostName   string
	falseStart bool

	cipherSuiteFlagsEnabled uint32

	version            records.ProtocolVersion
	versionEstablished bool
	state              State

	clientRandom [32]byte
	serverRandom [32]byte
	masterSecret []byte

	cipherSuite       records.CipherSuite
	cipherSuiteChosen bool

	readCipherSpec, writeCipherSpec               records.Cipher
	pendingReadCipherSpec, pendingWriteCipherSpec records.Cipher
	readSeqNum, writeSeqNum                       uint64

	pendingHandshakeParts [][]byte

	handshakeHash *Hash
	lastBuffer    []byte

	gotRenegotiationInfo bool

	serverCertificates [][]byte
	serverCert         tlsctx.Certificate

	applicationDataAllowed bool

	err error
}

// NewEngine starts a fresh handshake against ctx. The caller must enable
// at least one cipher suite (EnableDefault or the individual EnableRSA /
// EnableRC4 / EnableSHA / EnableMD5 bits) before the first Get call, or
// ClientHello marshaling fails with NoPossibleCipherSuites.
func NewEngine(ctx tlsctx.Context) *Engine {
	return &Engine{
		ctx:   ctx,
		state: SendPhaseOne,
	}
}

func (e *Engine) EnableRSA(enable bool) { e.setEnableBit(records.FlagRSA, enable) }
func (e *Engine) EnableRC4(enable bool) { e.setEnableBit(records.FlagRC4, enable) }
func (e *Engine) EnableSHA(enable bool) { e.setEnableBit(records.FlagSHA, enable) }
func (e *Engine) EnableMD5(enable bool) { e.setEnableBit(records.FlagMD5, enable) }

// EnableAES, Enable3DES and EnableSHA256 reach the catalog entries this
// package added beyond the original client's RC4/MD5-era default — none
// of the original Enable* calls could select them.
func (e *Engine) EnableAES(enable bool)    { e.setEnableBit(records.FlagAES, enable) }
func (e *Engine) Enable3DES(enable bool)   { e.setEnableBit(records.Flag3DES, enable) }
func (e *Engine) EnableSHA256(enable bool) { e.setEnableBit(records.FlagSHA256, enable) }

// EnableDefault turns on RSA key exchange, RC4, SHA-1 and MD5 — the same
// four algorithm bits the original client's EnableDefault set. It does
// not enable AES or SHA-256; a caller wanting the stronger catalog
// entries this package added enables them individually with EnableAES,
// Enable3DES and EnableSHA256.
func (e *Engine) EnableDefault() {
	e.EnableRSA(true)
	e.EnableRC4(true)
	e.EnableSHA(true)
	e.EnableMD5(true)
}

func (e *Engine) setEnableBit(mask uint32, enable bool) {
	if enable {
		e.cipherSuiteFlagsEnabled |= mask
	} else {
		e.cipherSuiteFlagsEnabled &^= mask
	}
}

// SetSSLv3 selects SSLv3 as the version to offer in ClientHello, instead
// of the default TLS 1.2.
func (e *Engine) SetSSLv3(useSSLv3 bool) { e.sslv3 = useSSLv3 }

// SetHostName sets the name sent in the SNI extension. Ignored when
// SetSSLv3(true), since SSLv3 ClientHellos carry no extensions.
func (e *Engine) SetHostName(name string) { e.hostName = name }

// EnableFalseStart records the flag but never acts on it: releasing
// application data before the server's Finished has been verified is an
// explicit non-goal here.
func (e *Engine) EnableFalseStart(enable bool) { e.falseStart = enable }

// ApplicationDataAllowed reports whether the handshake has completed.
func (e *Engine) ApplicationDataAllowed() bool { return e.applicationDataAllowed }

// State returns the current handshake state, mostly useful for tests.
func (e *Engine) State() State { return e.state }

func (e *Engine) versionToOffer() records.ProtocolVersion {
	if e.sslv3 {
		return records.SSL30
	}
	return records.TLS12
}

// NeedToWrite reports whether Get has an outbound flight ready.
func (e *Engine) NeedToWrite() bool {
	return e.state == SendPhaseOne || e.state == SendPhaseTwo
}

// sealAndWriteRecord encrypts plaintext (if a write cipher is active) and
// appends the resulting record, framed with version and recordType, to
// sink.
func (e *Engine) sealAndWriteRecord(sink *records.Sink, version records.ProtocolVersion, recordType records.ContentType, plaintext []byte) error {
	var header [5]byte
	header[0] = byte(recordType)
	header[1] = byte(version >> 8)
	header[2] = byte(version)

	body := plaintext
	if e.writeCipherSpec != nil {
		var err error
		body, err = e.writeCipherSpec.Seal(header, e.writeSeqNum, plaintext)
		if err != nil {
			return err
		}
		e.writeSeqNum++
		if e.writeSeqNum == maxSeqNum {
			return errSeqOverflow()
		}
	}

	rec := sink.Record(version, recordType)
	rec.Append(body)
	rec.Close()
	return nil
}

// Get produces the next outbound flight and advances the state machine.
// It fails with UnneededGet if NeedToWrite is false.
func (e *Engine) Get() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if !e.NeedToWrite() {
		return nil, tlserr.New(tlserr.UnneededGet)
	}

	sink := records.NewSink()

	if e.state == SendPhaseOne {
		plaintext, err := e.marshalClientHello()
		if err != nil {
			e.err = err
			return nil, err
		}
		// The record header itself is always sent as TLS 1.2, whatever
		// version the ClientHello body offers; only the negotiated
		// version pins the record header from ServerHello onward.
		e.lastBuffer = append([]byte(nil), plaintext...)
		if err := e.sealAndWriteRecord(sink, records.TLS12, records.Handshake, plaintext); err != nil {
			e.err = err
			return nil, err
		}
		e.state = RecvServerHello
		return sink.Bytes(), nil
	}

	// SendPhaseTwo: ClientKeyExchange, ChangeCipherSpec, Finished, all in
	// one flight.
	ckePlaintext, err := e.marshalClientKeyExchange()
	if err != nil {
		e.err = err
		return nil, err
	}
	e.handshakeHash.Update(ckePlaintext)
	if err := e.sealAndWriteRecord(sink, e.version, records.Handshake, ckePlaintext); err != nil {
		e.err = err
		return nil, err
	}

	// ChangeCipherSpec still goes out under whatever write cipher (if
	// any) was active before this handshake; the pending spec derived
	// above only becomes active afterward.
	if err := e.sealAndWriteRecord(sink, e.version, records.ChangeCipherSpec, []byte{1}); err != nil {
		e.err = err
		return nil, err
	}
	e.writeCipherSpec = e.pendingWriteCipherSpec
	e.pendingWriteCipherSpec = nil
	e.writeSeqNum = 0

	finPlaintext := e.marshalFinished()
	e.handshakeHash.Update(finPlaintext)
	if err := e.sealAndWriteRecord(sink, e.version, records.Handshake, finPlaintext); err != nil {
		e.err = err
		return nil, err
	}

	e.state = RecvChangeCipherSpec
	return sink.Bytes(), nil
}

// Encrypt wraps payload as one application-data record. Valid only once
// ApplicationDataAllowed is true.
func (e *Engine) Encrypt(payload []byte) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if !e.applicationDataAllowed {
		return nil, tlserr.New(tlserr.NotReadyToSendApplicationData)
	}
	if len(payload) > records.MaxPlaintextLength {
		return nil, tlserr.New(tlserr.RecordTooLongToEncrypt)
	}

	sink := records.NewSink()
	if err := e.sealAndWriteRecord(sink, e.version, records.ApplicationData, payload); err != nil {
		e.err = err
		return nil, err
	}
	return sink.Bytes(), nil
}

// nextRecordIsApplicationData peeks the content-type byte of the next
// record without consuming anything — that byte is always sent in the
// clear, so this needs no cipher state.
func nextRecordIsApplicationData(in *records.Buffer) (isAppData, ok bool) {
	pos := in.Tell()
	defer in.Seek(pos)
	b, ok := in.U8()
	if !ok {
		return false, false
	}
	return records.ContentType(b) == records.ApplicationData, true
}

// Process consumes as much of chunks as is currently framed, returning
// any decrypted application data and how many bytes were consumed.
// Consecutive application-data records are coalesced into one return;
// Process stops (without error) as soon as it either runs out of framed
// input or reaches a point where it must write before it can usefully
// read more (NeedToWrite becomes true, or a differently-typed record
// follows already-collected application data).
func (e *Engine) Process(chunks [][]byte) (plaintext [][]byte, consumed int, err error) {
	if e.err != nil {
		return nil, 0, e.err
	}

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	in := records.NewBuffer(chunks)

	for {
		if e.NeedToWrite() {
			return plaintext, total - in.Remaining(), nil
		}

		if len(plaintext) > 0 {
			if isAppData, ok := nextRecordIsApplicationData(in); ok && !isAppData {
				return plaintext, total - in.Remaining(), nil
			}
		}

		found, rtype, htype, payload, gerr := e.GetRecordOrHandshake(in)
		if gerr != nil {
			e.err = gerr
			return plaintext, total - in.Remaining(), gerr
		}
		if !found {
			return plaintext, total - in.Remaining(), nil
		}

		switch rtype {
		case records.ApplicationData:
			if !e.applicationDataAllowed {
				e.err = tlserr.New(tlserr.UnexpectedApplicationData)
				return plaintext, total - in.Remaining(), e.err
			}
			plaintext = append(plaintext, payload.Flatten())
		case records.Alert:
			aerr := e.processAlert(payload)
			e.err = aerr
			return plaintext, total - in.Remaining(), aerr
		case records.ChangeCipherSpec:
			if perr := e.ProcessHandshakeMessage(changeCipherSpec, payload); perr != nil {
				e.err = perr
				return plaintext, total - in.Remaining(), perr
			}
		case records.Handshake:
			if perr := e.ProcessHandshakeMessage(htype, payload); perr != nil {
				e.err = perr
				return plaintext, total - in.Remaining(), perr
			}
		default:
			e.err = tlserr.New(tlserr.Internal)
			return plaintext, total - in.Remaining(), e.err
		}
	}
}

func (e *Engine) processAlert(in *records.Buffer) error {
	if in.Remaining() != 2 {
		return tlserr.New(tlserr.IncorrectAlertLength)
	}
	level, _ := in.U8()
	if !IsValidAlertLevel(level) {
		return tlserr.New(tlserr.InvalidAlertLevel)
	}
	code, _ := in.U8()
	return AlertTypeToResult(AlertType(code))
}
