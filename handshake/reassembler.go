package handshake

import "github.com/Bhanditz/tlsclient/records"

// GetHandshakeMessage reads one length-framed handshake message header
// (type(1) + length(3)) from in and, if the full body is already
// available, returns it as a sub-Buffer without copying. found is false,
// with no error, if in doesn't yet hold a complete message — the caller
// is expected to call again once more bytes have arrived.
func GetHandshakeMessage(in *records.Buffer) (found bool, htype MessageType, body *records.Buffer, err error) {
	start := in.Tell()

	rawType, ok := in.U8()
	if !ok {
		return false, 0, nil, nil
	}
	if !isValidHandshakeType(rawType) {
		return false, 0, nil, errUnknownHandshakeMessageType()
	}
	length, ok := in.U24()
	if !ok {
		in.Seek(start)
		return false, 0, nil, nil
	}
	if length > records.MaxHandshakeLength {
		return false, 0, nil, errHandshakeMessageTooLong()
	}
	if in.Remaining() < int(length) {
		in.Seek(start)
		return false, 0, nil, nil
	}

	scatter, _ := in.Peek(int(length))
	in.Advance(int(length))
	return true, MessageType(rawType), records.NewBuffer(scatter), nil
}

// GetRecordOrHandshake reads either one complete non-handshake record, or
// one complete handshake message, from in. A handshake message may span
// several records; conversely one record may hold a message plus the
// start of the next one, in which case the leftover decrypted plaintext
// is kept on e (pendingHandshakeParts) for the following call.
//
// This is the same reassembly problem the reference implementation's
// GetRecordOrHandshake solves, but where that code decrypts each
// handshake record's ciphertext in place and re-peeks the leftover raw
// bytes on the next call, this version decrypts a record exactly once,
// in full, and threads the resulting plaintext forward as ordinary Go
// state — records.Buffer never mutates the chunks it's given.
func (e *Engine) GetRecordOrHandshake(in *records.Buffer) (found bool, rtype records.ContentType, htype MessageType, payload *records.Buffer, err error) {
	parts := e.pendingHandshakeParts
	e.pendingHandshakeParts = nil

	// A prior record may have held a whole message plus the start of the
	// next one; that next message can already be complete in parts, with
	// nothing further needed from in. Check that before ever touching in,
	// or a message sitting fully buffered here would only surface once
	// another record's bytes happened to arrive.
	if len(parts) > 0 {
		buf := records.NewBuffer(parts)
		found, htype, payload, err = GetHandshakeMessage(buf)
		if err != nil {
			return false, 0, 0, nil, err
		}
		if found {
			if buf.Remaining() > 0 {
				leftover, _ := buf.Peek(buf.Remaining())
				e.pendingHandshakeParts = leftover
			}
			return true, records.Handshake, htype, payload, nil
		}
	}

	for {
		start := in.Tell()
		raw, ok := in.Read(records.HeaderSize)
		if !ok {
			e.pendingHandshakeParts = parts
			return false, 0, 0, nil, nil
		}
		var header [5]byte
		copy(header[:], raw)

		if !records.IsValidRecordType(records.ContentType(header[0])) {
			return false, 0, 0, nil, errInvalidRecordType()
		}
		recordType := records.ContentType(header[0])

		version := records.ProtocolVersion(uint16(header[1])<<8 | uint16(header[2]))
		if e.versionEstablished {
			if e.version != version {
				return false, 0, 0, nil, errBadRecordVersion()
			}
		} else {
			if !records.IsValidVersion(version) {
				return false, 0, 0, nil, errInvalidRecordVersion()
			}
			e.versionEstablished = true
			e.version = version
		}

		length := int(uint16(header[3])<<8 | uint16(header[4]))
		if in.Remaining() < length {
			in.Seek(start)
			e.pendingHandshakeParts = parts
			return false, 0, 0, nil, nil
		}

		scatter, _ := in.Peek(length)
		body := flatten(scatter)
		if e.readCipherSpec != nil {
			body, err = e.readCipherSpec.Open(header, e.readSeqNum, body)
			if err != nil {
				return false, 0, 0, nil, err
			}
			e.readSeqNum++
			if e.readSeqNum == maxSeqNum {
				return false, 0, 0, nil, errSeqOverflow()
			}
		}
		in.Advance(length)

		if recordType != records.Handshake {
			if len(parts) > 0 {
				return false, 0, 0, nil, errTruncatedHandshakeMessage()
			}
			return true, recordType, 0, records.NewBuffer([][]byte{body}), nil
		}

		parts = append(parts, body)
		buf := records.NewBuffer(parts)
		found, htype, payload, err = GetHandshakeMessage(buf)
		if err != nil {
			return false, 0, 0, nil, err
		}
		if !found {
			continue
		}

		if buf.Remaining() > 0 {
			leftover, _ := buf.Peek(buf.Remaining())
			e.pendingHandshakeParts = leftover
		}
		return true, records.Handshake, htype, payload, nil
	}
}

func flatten(scatter [][]byte) []byte {
	n := 0
	for _, s := range scatter {
		n += len(s)
	}
	out := make([]byte, 0, n)
	for _, s := range scatter {
		out = append(out, s...)
	}
	return out
}
