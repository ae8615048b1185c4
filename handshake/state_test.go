package handshake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPermittedAcceptsListedMessage(t *testing.T) {
	assert.True(t, isPermitted(RecvServerHello, ServerHello))
}

func TestIsPermittedRejectsUnlistedMessage(t *testing.T) {
	assert.False(t, isPermitted(RecvServerHello, Certificate))
}

func TestIsPermittedRejectsMessageForUnlistedState(t *testing.T) {
	assert.False(t, isPermitted(SendPhaseOne, ClientHello))
}

func TestChangeCipherSpecOnlyPermittedInItsOwnState(t *testing.T) {
	assert.True(t, isPermitted(RecvChangeCipherSpec, changeCipherSpec))
	assert.False(t, isPermitted(RecvFinished, changeCipherSpec))
}

func TestIsValidHandshakeType(t *testing.T) {
	for _, tt := range []uint8{0, 1, 2, 11, 12, 13, 14, 15, 16, 20} {
		assert.True(t, isValidHandshakeType(tt), "expected %d to be valid", tt)
	}
	for _, tt := range []uint8{3, 5, 10, 17, 21, 255} {
		assert.False(t, isValidHandshakeType(tt), "expected %d to be invalid", tt)
	}
}

func TestStateStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "RECV_FINISHED", RecvFinished.String())
	assert.Equal(t, "UNKNOWN_STATE", State(99).String())
}
