package records

import "encoding/binary"

// Sink is an append-only byte builder whose distinguishing trick is
// VariableLengthBlock: it reserves a fixed-width length prefix, hands back
// a child Sink for the block's content, and backpatches the prefix with
// the child's final length when the child is Closed. TLS's wire framing —
// records inside nothing, handshake messages inside records, certificate
// lists inside certificate messages — is exactly nested instances of this.
//
// All Sinks derived from one root share a single growable backing array,
// so writes through a child are visible to the root's Bytes() immediately;
// the bytes are copied only when a write grows the array past its capacity.
type Sink struct {
	buf          *[]byte
	lengthOffset int // offset of the reserved prefix in *buf; -1 if none
	lengthSize   int
	start        int // offset in *buf where this Sink's own content begins
	closed       bool
}

// NewSink creates an empty root Sink.
func NewSink() *Sink {
	buf := make([]byte, 0, 512)
	return &Sink{buf: &buf, lengthOffset: -1}
}

func (s *Sink) ensure(n int) {
	need := len(*s.buf) + n
	if cap(*s.buf) >= need {
		return
	}
	grown := make([]byte, len(*s.buf), (need+64)*2)
	copy(grown, *s.buf)
	*s.buf = grown
}

// grow extends the shared buffer by n bytes and returns that region.
// The returned slice aliases the shared backing array: it stays valid
// only until the next call that grows the buffer past its capacity.
// Callers write into it (or hand it to a collaborator, e.g. RSA
// encryption) before making any further Sink calls.
func (s *Sink) grow(n int) []byte {
	s.ensure(n)
	old := len(*s.buf)
	*s.buf = (*s.buf)[:old+n]
	return (*s.buf)[old : old+n]
}

func (s *Sink) U8(v uint8) { s.grow(1)[0] = v }

func (s *Sink) U16(v uint16) { binary.BigEndian.PutUint16(s.grow(2), v) }

func (s *Sink) U24(v uint32) {
	b := s.grow(3)
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func (s *Sink) U32(v uint32) { binary.BigEndian.PutUint32(s.grow(4), v) }

// Append copies p onto the end of the Sink.
func (s *Sink) Append(p []byte) { copy(s.grow(len(p)), p) }

// Block reserves n bytes and returns them for the caller to fill in
// directly (see the grow doc comment for the aliasing caveat).
func (s *Sink) Block(n int) []byte { return s.grow(n) }

// VariableLengthBlock reserves a k-byte (1, 2, or 3) big-endian length
// prefix and returns a child Sink over the content that follows. The
// child's Close backpatches the reserved prefix with its final length.
func (s *Sink) VariableLengthBlock(k int) *Sink {
	off := len(*s.buf)
	s.grow(k)
	return &Sink{buf: s.buf, lengthOffset: off, lengthSize: k, start: len(*s.buf)}
}

// Record starts a record: it writes the 1-byte type and 2-byte version,
// then returns a child Sink over the record's 2-byte-length-prefixed
// payload.
func (s *Sink) Record(version ProtocolVersion, t ContentType) *Sink {
	s.U8(uint8(t))
	s.U16(uint16(version))
	return s.VariableLengthBlock(2)
}

// HandshakeMessage writes a handshake message's 1-byte type and returns a
// child Sink over its 3-byte-length-prefixed body.
func (s *Sink) HandshakeMessage(t uint8) *Sink {
	s.U8(t)
	return s.VariableLengthBlock(3)
}

// Close backpatches this Sink's reserved length prefix. It is a harmless
// no-op on a Sink that has none (e.g. the root) or has already been
// closed. Blocks must be closed innermost-first — exactly the nesting
// order a sequence of deferred Close calls produces.
func (s *Sink) Close() {
	if s.closed || s.lengthOffset < 0 {
		s.closed = true
		return
	}
	length := len(*s.buf) - s.start
	buf := *s.buf
	for i := 0; i < s.lengthSize; i++ {
		buf[s.lengthOffset+i] = byte(length >> uint(8*(s.lengthSize-i-1)))
	}
	s.closed = true
}

// Bytes returns everything written to this Sink so far, i.e. its content
// after any reserved length prefix. Valid at any point, closed or not.
func (s *Sink) Bytes() []byte { return (*s.buf)[s.start:] }

// Len is len(s.Bytes()).
func (s *Sink) Len() int { return len(*s.buf) - s.start }
