package handshake

import (
	"bytes"

	"github.com/mkobetic/okapi"

	"github.com/Bhanditz/tlsclient/records"
)

// Hash accumulates the running transcript of every handshake message sent
// and received, in order, so ClientVerifyData/ServerVerifyData can be
// computed without having kept the messages themselves around. Before TLS
// 1.2 the transcript is fed to both MD5 and SHA-1 in parallel; TLS 1.2
// uses SHA-256 alone (RFC 5246 §7.4.9). Digest snapshots use okapi.Hash's
// Clone so computing one doesn't disturb the running accumulation — the
// client Finished digest and the server Finished digest are each taken at
// a different point in the same transcript.
type Hash struct {
	version   records.ProtocolVersion
	md5, sha1 okapi.Hash
	sha256    okapi.Hash
}

// NewHash starts an empty transcript for version.
func NewHash(version records.ProtocolVersion) *Hash {
	h := &Hash{version: version}
	if version == records.TLS12 {
		h.sha256 = okapi.SHA256.New()
	} else {
		h.md5 = okapi.MD5.New()
		h.sha1 = okapi.SHA1.New()
	}
	return h
}

// Update appends b to the transcript.
func (h *Hash) Update(b []byte) {
	if h.sha256 != nil {
		h.sha256.Write(b)
		return
	}
	h.md5.Write(b)
	h.sha1.Write(b)
}

// snapshot returns the transcript digest so far without disturbing the
// running hash state.
func (h *Hash) snapshot() []byte {
	if h.sha256 != nil {
		clone := h.sha256.Clone()
		defer clone.Close()
		return clone.Digest()
	}
	md5clone := h.md5.Clone()
	defer md5clone.Close()
	shaClone := h.sha1.Clone()
	defer shaClone.Close()
	return append(md5clone.Digest(), shaClone.Digest()...)
}

// Close releases the underlying hash states.
func (h *Hash) Close() {
	if h.sha256 != nil {
		h.sha256.Close()
		return
	}
	h.md5.Close()
	h.sha1.Close()
}

var clientFinishedLabel = []byte("client finished")
var serverFinishedLabel = []byte("server finished")

// ClientVerifyData computes the value the client's Finished message
// carries: 12 bytes derived from the master secret and the transcript so
// far (RFC 5246 §7.4.9), or the 36-byte SSLv3 construction (RFC 6101
// §5.6.8) when version is SSL30.
func (h *Hash) ClientVerifyData(masterSecret []byte) []byte {
	if h.version == records.SSL30 {
		return ssl30Finished(h, masterSecret, ssl30SenderClient)
	}
	return records.PRF(h.version, masterSecret, clientFinishedLabel, h.snapshot(), 12)
}

// ServerVerifyData computes the value expected in the server's Finished
// message, symmetric to ClientVerifyData but with the "server finished"
// label (and sender constant, for SSLv3).
func (h *Hash) ServerVerifyData(masterSecret []byte) []byte {
	if h.version == records.SSL30 {
		return ssl30Finished(h, masterSecret, ssl30SenderServer)
	}
	return records.PRF(h.version, masterSecret, serverFinishedLabel, h.snapshot(), 12)
}

type ssl30Sender uint32

const (
	ssl30SenderClient ssl30Sender = 0x434C4E54
	ssl30SenderServer ssl30Sender = 0x53525652
)

var ssl30Pad1 = bytes.Repeat([]byte{0x36}, 48)
var ssl30Pad2 = bytes.Repeat([]byte{0x5c}, 48)

// ssl30Finished implements RFC 6101 §5.6.8's Finished-message digest:
//
//	md5_hash  = MD5(master_secret || pad2 || MD5(handshake_messages || sender || master_secret || pad1))
//	sha_hash  = SHA(master_secret || pad2 || SHA(handshake_messages || sender || master_secret || pad1))
func ssl30Finished(h *Hash, masterSecret []byte, sender ssl30Sender) []byte {
	var senderBytes [4]byte
	senderBytes[0] = byte(sender >> 24)
	senderBytes[1] = byte(sender >> 16)
	senderBytes[2] = byte(sender >> 8)
	senderBytes[3] = byte(sender)

	md5clone := h.md5.Clone()
	defer md5clone.Close()
	md5clone.Write(senderBytes[:])
	md5clone.Write(masterSecret)
	md5clone.Write(ssl30Pad1)
	inner := md5clone.Digest()

	md5 := okapi.MD5.New()
	defer md5.Close()
	md5.Write(masterSecret)
	md5.Write(ssl30Pad2)
	md5.Write(inner)
	md5Out := md5.Digest()

	shaClone := h.sha1.Clone()
	defer shaClone.Close()
	shaClone.Write(senderBytes[:])
	shaClone.Write(masterSecret)
	shaClone.Write(ssl30Pad1[:40])
	shaInner := shaClone.Digest()

	sha := okapi.SHA1.New()
	defer sha.Close()
	sha.Write(masterSecret)
	sha.Write(ssl30Pad2[:40])
	sha.Write(shaInner)
	shaOut := sha.Digest()

	return append(md5Out, shaOut...)
}
