package handshake

import (
	"bytes"

	"github.com/Bhanditz/tlsclient/tlsctx"
)

// fakeCert is a tlsctx.Certificate that "encrypts" by copying the
// plaintext into the low bytes of a size-byte block. It exists so tests
// can drive ClientKeyExchange without a real RSA key: recovering the
// premaster secret a test sent is just reading sent[:len(premaster)].
type fakeCert struct {
	size int
	sent []byte
}

func (c *fakeCert) SizeEncryptPKCS1() int { return c.size }

func (c *fakeCert) EncryptPKCS1(out, in []byte) bool {
	if len(out) != c.size || len(in) > c.size {
		return false
	}
	c.sent = append([]byte(nil), in...)
	copy(out, in)
	return true
}

// fakeContext is a tlsctx.Context backed by a fixed byte stream instead of
// a real RNG, so a test can predict every "random" value the engine draws.
type fakeContext struct {
	epoch  uint64
	random *bytes.Reader
	cert   *fakeCert
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		epoch:  0x01020304,
		random: bytes.NewReader(sequentialBytes(4096)),
		cert:   &fakeCert{size: 128},
	}
}

func (c *fakeContext) EpochSeconds() uint64 { return c.epoch }

func (c *fakeContext) RandomBytes(buf []byte) bool {
	n, err := c.random.Read(buf)
	return err == nil && n == len(buf)
}

func (c *fakeContext) ParseCertificate(der []byte) tlsctx.Certificate { return c.cert }

func sequentialBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
