package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferReadAcrossChunks(t *testing.T) {
	b := NewBuffer([][]byte{h2b("0102"), h2b("0304"), h2b("05")})
	assert.Equal(t, 5, b.Remaining())

	got, ok := b.Read(3)
	require.True(t, ok)
	assertEqualBytes(t, h2b("010203"), got)
	assert.Equal(t, 2, b.Remaining())

	v, ok := b.U16()
	require.True(t, ok)
	assert.Equal(t, uint16(0x0405), v)
	assert.Equal(t, 0, b.Remaining())
}

func TestBufferReadPastEndLeavesCursor(t *testing.T) {
	b := NewBuffer([][]byte{h2b("0102")})
	pos := b.Tell()

	_, ok := b.Read(3)
	assert.False(t, ok)
	assert.Equal(t, pos, b.Tell())

	got, ok := b.Read(2)
	require.True(t, ok)
	assertEqualBytes(t, h2b("0102"), got)
}

func TestBufferSeek(t *testing.T) {
	b := NewBuffer([][]byte{h2b("aabbcc")})
	pos := b.Tell()
	b.Advance(2)
	assert.Equal(t, 1, b.Remaining())
	b.Seek(pos)
	assert.Equal(t, 3, b.Remaining())
}

func TestBufferVariableLength(t *testing.T) {
	b := NewBuffer([][]byte{h2b("0003" + "aabbcc" + "ff")})
	sub, ok := b.VariableLength(2)
	require.True(t, ok)
	assert.Equal(t, 3, sub.Remaining())
	assertEqualBytes(t, h2b("aabbcc"), sub.Flatten())

	rest, ok := b.U8()
	require.True(t, ok)
	assert.Equal(t, uint8(0xff), rest)
}

func TestBufferVariableLengthTruncated(t *testing.T) {
	b := NewBuffer([][]byte{h2b("0005" + "aabb")})
	_, ok := b.VariableLength(2)
	assert.False(t, ok)
}

func TestBufferPeekDoesNotAdvance(t *testing.T) {
	b := NewBuffer([][]byte{h2b("010203")})
	scatter, ok := b.Peek(2)
	require.True(t, ok)
	assertEqualBytes(t, h2b("0102"), flattenScatter(scatter))
	assert.Equal(t, 3, b.Remaining())
}

func flattenScatter(chunks [][]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
