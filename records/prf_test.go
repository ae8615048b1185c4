package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterSecretIsDeterministicAndVersioned(t *testing.T) {
	premaster := h2b("0303" + "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f2021222324252627")
	clientRandom := h2b("00112233445566778899aabbccddeeff0102030405060708090a0b0c0d0e0f10")
	serverRandom := h2b("ff112233445566778899aabbccddeeff0102030405060708090a0b0c0d0e0f10")

	tls12 := MasterSecret(TLS12, premaster, clientRandom, serverRandom)
	tls10 := MasterSecret(TLS10, premaster, clientRandom, serverRandom)
	ssl30 := MasterSecret(SSL30, premaster, clientRandom, serverRandom)

	require.Len(t, tls12, 48)
	require.Len(t, tls10, 48)
	require.Len(t, ssl30, 48)
	assert.NotEqual(t, tls12, tls10)
	assert.NotEqual(t, tls10, ssl30)

	again := MasterSecret(TLS12, premaster, clientRandom, serverRandom)
	assertEqualBytes(t, tls12, again)
}

func TestKeysFromMasterSecretSizesMatchSuite(t *testing.T) {
	suite, ok := FindCipherSuite(0x002F) // AES-128-CBC-SHA
	require.True(t, ok)

	masterSecret := make([]byte, 48)
	clientRandom := make([]byte, 32)
	serverRandom := make([]byte, 32)
	for i := range masterSecret {
		masterSecret[i] = byte(i)
	}

	kb := KeysFromMasterSecret(TLS12, suite, masterSecret, clientRandom, serverRandom)
	assert.Len(t, kb.ClientKey, suite.KeyLen)
	assert.Len(t, kb.ServerKey, suite.KeyLen)
	assert.Len(t, kb.ClientWriteMACKey, suite.MACLen)
	assert.Len(t, kb.ServerWriteMACKey, suite.MACLen)
	// TLS 1.1+ block ciphers carry an explicit per-record IV, not one
	// derived here.
	assert.Nil(t, kb.ClientIV)
	assert.Nil(t, kb.ServerIV)

	kbTLS10 := KeysFromMasterSecret(TLS10, suite, masterSecret, clientRandom, serverRandom)
	assert.Len(t, kbTLS10.ClientIV, suite.IVLen)
	assert.Len(t, kbTLS10.ServerIV, suite.IVLen)

	assert.NotEqual(t, kb.ClientKey, kb.ServerKey)
}
