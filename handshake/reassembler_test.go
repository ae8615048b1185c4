package handshake

import (
	"testing"

	"github.com/Bhanditz/tlsclient/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHandshakeRecord(version records.ProtocolVersion, msgType uint8, body []byte) []byte {
	sink := records.NewSink()
	rec := sink.Record(version, records.Handshake)
	msg := rec.HandshakeMessage(msgType)
	msg.Append(body)
	msg.Close()
	rec.Close()
	return sink.Bytes()
}

func TestGetRecordOrHandshakeWholeMessageInOneRecord(t *testing.T) {
	e := &Engine{}
	wire := buildHandshakeRecord(records.TLS12, uint8(ServerHelloDone), nil)

	in := records.NewBuffer([][]byte{wire})
	found, rtype, htype, payload, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, records.Handshake, rtype)
	assert.Equal(t, ServerHelloDone, htype)
	assert.Equal(t, 0, payload.Remaining())
}

func TestGetRecordOrHandshakeIncompleteRecordReturnsNotFound(t *testing.T) {
	e := &Engine{}
	wire := buildHandshakeRecord(records.TLS12, uint8(ServerHelloDone), []byte("hi"))

	in := records.NewBuffer([][]byte{wire[:len(wire)-1]})
	found, _, _, _, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, len(wire)-1, in.Remaining(), "cursor must not move on an incomplete record")
}

func TestGetRecordOrHandshakeSplitAcrossTwoRecords(t *testing.T) {
	body := []byte("a handshake body split across two TLS records")

	msgSink := records.NewSink()
	msg := msgSink.HandshakeMessage(uint8(Certificate))
	msg.Append(body)
	msg.Close()
	message := msgSink.Bytes()
	split := len(message) - 10

	sink := records.NewSink()
	rec1 := sink.Record(records.TLS12, records.Handshake)
	rec1.Append(message[:split])
	rec1.Close()
	firstLen := sink.Len()
	rec2 := sink.Record(records.TLS12, records.Handshake)
	rec2.Append(message[split:])
	rec2.Close()
	wire := sink.Bytes()

	first := wire[:firstLen]
	second := wire[firstLen:]

	e := &Engine{}
	in := records.NewBuffer([][]byte{first})
	found, _, _, _, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	assert.False(t, found)

	in2 := records.NewBuffer([][]byte{second})
	found, rtype, htype, payload, err := e.GetRecordOrHandshake(in2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, records.Handshake, rtype)
	assert.Equal(t, Certificate, htype)
	assert.Equal(t, body, payload.Flatten())
}

func TestGetRecordOrHandshakeTwoMessagesInOneRecord(t *testing.T) {
	sink := records.NewSink()
	rec := sink.Record(records.TLS12, records.Handshake)
	first := rec.HandshakeMessage(uint8(ServerHelloDone))
	first.Close()
	second := rec.HandshakeMessage(uint8(Finished))
	second.Append([]byte("verify data!"))
	second.Close()
	rec.Close()
	wire := sink.Bytes()

	e := &Engine{}
	in := records.NewBuffer([][]byte{wire})

	found, _, htype, _, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ServerHelloDone, htype)

	found, _, htype, payload, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Finished, htype)
	assert.Equal(t, []byte("verify data!"), payload.Flatten())
}

func TestGetRecordOrHandshakeRejectsVersionChangeMidConnection(t *testing.T) {
	e := &Engine{version: records.TLS12, versionEstablished: true}
	wire := buildHandshakeRecord(records.TLS11, uint8(ServerHelloDone), nil)

	in := records.NewBuffer([][]byte{wire})
	_, _, _, _, err := e.GetRecordOrHandshake(in)
	assert.Error(t, err)
}

func TestGetRecordOrHandshakeNonHandshakeRecordPassesThrough(t *testing.T) {
	sink := records.NewSink()
	rec := sink.Record(records.TLS12, records.Alert)
	rec.U8(2)
	rec.U8(10)
	rec.Close()

	e := &Engine{}
	in := records.NewBuffer([][]byte{sink.Bytes()})
	found, rtype, _, payload, err := e.GetRecordOrHandshake(in)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, records.Alert, rtype)
	assert.Equal(t, []byte{2, 10}, payload.Flatten())
}
