// Package conn provides the public client-side TLS/SSLv3 connection
// facade: a non-blocking handshake and record-protection engine with no
// I/O of its own. A caller owns the actual socket (or any other
// transport) and drives Connection by handing it bytes it received
// (Process) and asking it for bytes to send (Get, Encrypt).
package conn

import (
	"github.com/Bhanditz/tlsclient/handshake"
	"github.com/Bhanditz/tlsclient/tlsctx"
)

// Connection drives one client-side TLS/SSLv3 session end to end: the
// handshake, then ongoing application-data protection. It is a thin,
// stable-API wrapper over handshake.Engine — everything here just
// forwards to the engine, so the two stay in lockstep by construction
// instead of by convention.
type Connection struct {
	engine *handshake.Engine
}

// New starts a fresh client connection against ctx, which supplies
// randomness, wall-clock time, and certificate parsing. The caller must
// enable at least one cipher suite before the first call to Get.
func New(ctx tlsctx.Context) *Connection {
	return &Connection{engine: handshake.NewEngine(ctx)}
}

// EnableDefault turns on RSA key exchange, RC4, SHA-1 and MD5 — enough to
// interoperate with a legacy TLS 1.0-or-earlier server. Callers targeting
// a modern peer should also enable AES and SHA-256.
func (c *Connection) EnableDefault() { c.engine.EnableDefault() }

func (c *Connection) EnableRSA(enable bool)    { c.engine.EnableRSA(enable) }
func (c *Connection) EnableRC4(enable bool)    { c.engine.EnableRC4(enable) }
func (c *Connection) EnableSHA(enable bool)    { c.engine.EnableSHA(enable) }
func (c *Connection) EnableMD5(enable bool)    { c.engine.EnableMD5(enable) }
func (c *Connection) EnableAES(enable bool)    { c.engine.EnableAES(enable) }
func (c *Connection) Enable3DES(enable bool)   { c.engine.Enable3DES(enable) }
func (c *Connection) EnableSHA256(enable bool) { c.engine.EnableSHA256(enable) }

// EnableFalseStart is accepted for API compatibility with the reference
// client but never changes behavior: releasing application data before
// the server's Finished has been verified is an explicit non-goal here.
func (c *Connection) EnableFalseStart(enable bool) { c.engine.EnableFalseStart(enable) }

// SetSSLv3 offers SSLv3 instead of TLS 1.2 in ClientHello.
func (c *Connection) SetSSLv3(useSSLv3 bool) { c.engine.SetSSLv3(useSSLv3) }

// SetHostName sets the name sent in the SNI extension. Ignored under
// SSLv3, whose ClientHello carries no extensions.
func (c *Connection) SetHostName(name string) { c.engine.SetHostName(name) }

// NeedToWrite reports whether Get has an outbound flight ready. A caller
// should keep calling Get and writing its result to the transport until
// this returns false, before calling Process again.
func (c *Connection) NeedToWrite() bool { return c.engine.NeedToWrite() }

// Get produces the next outbound handshake flight.
func (c *Connection) Get() ([]byte, error) { return c.engine.Get() }

// Process consumes bytes received off the wire, returning any decrypted
// application data and how many of the given bytes were consumed. A
// caller should keep any unconsumed tail and prepend it to the next
// chunk it receives before calling Process again.
func (c *Connection) Process(chunks [][]byte) (plaintext [][]byte, consumed int, err error) {
	return c.engine.Process(chunks)
}

// Encrypt wraps payload as one application-data record ready to send. It
// only succeeds once the handshake has completed.
func (c *Connection) Encrypt(payload []byte) ([]byte, error) { return c.engine.Encrypt(payload) }

// HandshakeComplete reports whether the handshake has finished and
// application data may now be sent and received.
func (c *Connection) HandshakeComplete() bool { return c.engine.ApplicationDataAllowed() }
