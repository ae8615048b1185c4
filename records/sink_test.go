package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkVariableLengthBlockBackpatches(t *testing.T) {
	root := NewSink()
	child := root.VariableLengthBlock(2)
	child.Append(h2b("aabbcc"))
	child.Close()

	assertEqualBytes(t, h2b("0003aabbcc"), root.Bytes())
}

func TestSinkNestedBlocks(t *testing.T) {
	root := NewSink()
	rec := root.Record(TLS12, Handshake)
	msg := rec.HandshakeMessage(1)
	msg.U8(0xff)
	msg.Close()
	rec.Close()

	want := append([]byte{}, byte(Handshake))
	want = append(want, 0x03, 0x03) // TLS12
	want = append(want, 0x00, 0x05) // record length: 1(type)+3(len)+1(body)
	want = append(want, 0x01)       // handshake type
	want = append(want, 0x00, 0x00, 0x01)
	want = append(want, 0xff)
	assertEqualBytes(t, want, root.Bytes())
}

func TestSinkBlockAliasingStaysValidWithoutFurtherGrowth(t *testing.T) {
	root := NewSink()
	block := root.Block(4)
	copy(block, h2b("deadbeef"))
	assertEqualBytes(t, h2b("deadbeef"), root.Bytes())
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	root := NewSink()
	child := root.VariableLengthBlock(1)
	child.Append(h2b("01"))
	child.Close()
	child.Close()
	assertEqualBytes(t, h2b("0101"), root.Bytes())
	assert.Equal(t, 2, root.Len())
}
