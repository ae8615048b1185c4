package handshake

import (
	"testing"

	"github.com/Bhanditz/tlsclient/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashClientAndServerVerifyDataDifferTLS12(t *testing.T) {
	masterSecret := sequentialBytes(48)

	h := NewHash(records.TLS12)
	defer h.Close()
	h.Update([]byte("client hello"))
	h.Update([]byte("server hello"))

	client := h.ClientVerifyData(masterSecret)
	server := h.ServerVerifyData(masterSecret)

	require.Len(t, client, 12)
	require.Len(t, server, 12)
	assert.NotEqual(t, client, server, "client and server finished labels must diverge")
}

func TestHashVerifyDataStableAcrossRepeatedCalls(t *testing.T) {
	masterSecret := sequentialBytes(48)

	h := NewHash(records.TLS12)
	defer h.Close()
	h.Update([]byte("some transcript bytes"))

	first := h.ClientVerifyData(masterSecret)
	second := h.ClientVerifyData(masterSecret)
	assert.Equal(t, first, second, "snapshot must not disturb the running hash")

	h.Update([]byte("more transcript bytes"))
	third := h.ClientVerifyData(masterSecret)
	assert.NotEqual(t, first, third, "verify data must reflect newly added transcript")
}

func TestHashSSL30FinishedProducesThirtySixBytes(t *testing.T) {
	masterSecret := sequentialBytes(48)

	h := NewHash(records.SSL30)
	defer h.Close()
	h.Update([]byte("ssl3 transcript"))

	client := h.ClientVerifyData(masterSecret)
	server := h.ServerVerifyData(masterSecret)

	assert.Len(t, client, 36) // 16-byte MD5 output + 20-byte SHA-1 output
	assert.Len(t, server, 36)
	assert.NotEqual(t, client, server)
}
