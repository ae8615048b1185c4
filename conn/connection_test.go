package conn

import (
	"bytes"
	"testing"

	"github.com/Bhanditz/tlsclient/records"
	"github.com/Bhanditz/tlsclient/tlsctx"
	"github.com/Bhanditz/tlsclient/tlserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCert struct{ size int }

func (c *fakeCert) SizeEncryptPKCS1() int { return c.size }

func (c *fakeCert) EncryptPKCS1(out, in []byte) bool {
	if len(out) != c.size || len(in) > c.size {
		return false
	}
	copy(out, in)
	return true
}

type fakeContext struct {
	random *bytes.Reader
	cert   *fakeCert
}

func newFakeContext() *fakeContext {
	b := make([]byte, 4096)
	for i := range b {
		b[i] = byte(i)
	}
	return &fakeContext{random: bytes.NewReader(b), cert: &fakeCert{size: 128}}
}

func (c *fakeContext) EpochSeconds() uint64 { return 0x01020304 }

func (c *fakeContext) RandomBytes(buf []byte) bool {
	n, err := c.random.Read(buf)
	return err == nil && n == len(buf)
}

func (c *fakeContext) ParseCertificate(der []byte) tlsctx.Certificate { return c.cert }

// Connection is a thin forwarding layer over handshake.Engine; these
// tests exercise that every method actually reaches the engine and that
// errors and state come back unmodified. The protocol-level scenarios
// (bad record version, split handshakes, alert handling, verify_data
// checks) belong to handshake's own tests, since that's where the state
// they exercise actually lives.

func TestConnectionRequiresACipherSuiteBeforeGet(t *testing.T) {
	c := New(newFakeContext())
	_, err := c.Get()
	assert.True(t, tlserr.New(tlserr.NoPossibleCipherSuites).Is(err))
}

func TestConnectionNeedToWriteAndGetLifecycle(t *testing.T) {
	c := New(newFakeContext())
	c.EnableDefault()
	assert.True(t, c.NeedToWrite())

	clientHello, err := c.Get()
	require.NoError(t, err)
	assert.NotEmpty(t, clientHello)
	assert.False(t, c.NeedToWrite())

	_, err = c.Get()
	assert.True(t, tlserr.New(tlserr.UnneededGet).Is(err))
}

func TestConnectionEncryptBeforeHandshakeCompletes(t *testing.T) {
	c := New(newFakeContext())
	c.EnableDefault()
	_, err := c.Encrypt([]byte("too early"))
	assert.True(t, tlserr.New(tlserr.NotReadyToSendApplicationData).Is(err))
	assert.False(t, c.HandshakeComplete())
}

func TestConnectionEnableBitsReachTheCatalog(t *testing.T) {
	// With nothing but AES enabled, and no RSA, ClientHello must still
	// fail — AES alone isn't a usable key-exchange/cipher pairing.
	c := New(newFakeContext())
	c.EnableAES(true)
	_, err := c.Get()
	assert.True(t, tlserr.New(tlserr.NoPossibleCipherSuites).Is(err))

	c2 := New(newFakeContext())
	c2.EnableRSA(true)
	c2.EnableAES(true)
	c2.EnableSHA(true)
	_, err = c2.Get()
	assert.NoError(t, err)
}

func TestConnectionProcessRejectsGarbageBeforeAnyHandshakeState(t *testing.T) {
	c := New(newFakeContext())
	c.EnableDefault()
	_, err := c.Get()
	require.NoError(t, err)

	garbage := [][]byte{{0xff, 0xff, 0xff, 0xff, 0xff}}
	_, _, err = c.Process(garbage)
	assert.Error(t, err)
}

func TestConnectionSetHostNameReachesClientHelloExtensions(t *testing.T) {
	c := New(newFakeContext())
	c.EnableDefault()
	c.SetHostName("example.com")

	wire, err := c.Get()
	require.NoError(t, err)
	assert.True(t, bytes.Contains(wire, []byte("example.com")))
}

func TestConnectionSSLv3ClientHelloCarriesNoExtensions(t *testing.T) {
	c := New(newFakeContext())
	c.EnableDefault()
	c.SetSSLv3(true)
	c.SetHostName("example.com")

	wire, err := c.Get()
	require.NoError(t, err)
	assert.False(t, bytes.Contains(wire, []byte("example.com")))

	// The record header version is always sent as TLS 1.2 regardless of
	// what's offered inside; the offered version lives in the ClientHello
	// body, right after the 5-byte record header and 4-byte message header.
	const bodyVersionOffset = 5 + 4
	gotVersion := records.ProtocolVersion(uint16(wire[bodyVersionOffset])<<8 | uint16(wire[bodyVersionOffset+1]))
	assert.Equal(t, records.SSL30, gotVersion)
}
