package records

import "github.com/mkobetic/okapi"

// KeyBlock holds the values RFC 5246 §6.3 derives from the master secret:
// a MAC key and a bulk-cipher key for each direction, plus an IV for each
// direction when the negotiated suite needs one baked in here (SSLv3 and
// TLS 1.0; TLS 1.1/1.2 carry their IV explicitly per record instead).
type KeyBlock struct {
	ClientWriteMACKey, ServerWriteMACKey []byte
	ClientKey, ServerKey                 []byte
	ClientIV, ServerIV                   []byte
}

// pHash implements RFC 5246 §5's P_hash(secret, seed) expansion function:
// repeated HMAC(secret, A(i) || seed), where A(0) = seed and
// A(i) = HMAC(secret, A(i-1)).
func pHash(hs okapi.HashSpec, secret, seed []byte, length int) []byte {
	out := make([]byte, 0, length)
	a := seed
	for len(out) < length {
		mac := okapi.HMAC.New(hs, secret)
		mac.Write(a)
		a = mac.Digest()
		mac.Close()

		mac = okapi.HMAC.New(hs, secret)
		mac.Write(a)
		mac.Write(seed)
		out = append(out, mac.Digest()...)
		mac.Close()
	}
	return out[:length]
}

// prfTLS10 implements the TLS 1.0/1.1 combiner: split the secret in half
// (with the middle byte shared if the length is odd), run MD5's P_hash
// over one half and SHA-1's over the other, and XOR the results together
// (RFC 2246 §5).
func prfTLS10(secret, label, seed []byte, length int) []byte {
	s1 := secret[:(len(secret)+1)/2]
	s2 := secret[len(secret)/2:]

	ls := append(append([]byte{}, label...), seed...)
	md5Out := pHash(okapi.MD5, s1, ls, length)
	shaOut := pHash(okapi.SHA1, s2, ls, length)

	out := make([]byte, length)
	for i := range out {
		out[i] = md5Out[i] ^ shaOut[i]
	}
	return out
}

// prfTLS12 implements the TLS 1.2 PRF: a single P_hash run with the cipher
// suite's designated hash, defaulting to SHA-256 for every suite this
// package offers (RFC 5246 §5).
func prfTLS12(hs okapi.HashSpec, secret, label, seed []byte, length int) []byte {
	ls := append(append([]byte{}, label...), seed...)
	return pHash(hs, secret, ls, length)
}

// prf runs the version-appropriate PRF. SSLv3 does not use master-secret
// PRF and is handled entirely by ssl30MasterSecret and ssl30KeyBlock instead.
func prf(version ProtocolVersion, secret, label, seed []byte, length int) []byte {
	if version == TLS12 {
		return prfTLS12(okapi.SHA256, secret, label, seed, length)
	}
	return prfTLS10(secret, label, seed, length)
}

// ssl30Expand implements SSLv3's iterated MD5(secret + SHA(label + secret +
// seed)) expansion (RFC 6101 §5.6), used for both the master secret and
// the key block. label grows "A", "BB", "CCC", ... on each iteration.
func ssl30Expand(secret, seed []byte, length int) []byte {
	out := make([]byte, 0, length)
	for i := 0; len(out) < length; i++ {
		label := make([]byte, i+1)
		for j := range label {
			label[j] = byte('A' + i)
		}

		sha := okapi.SHA1.New()
		sha.Write(label)
		sha.Write(secret)
		sha.Write(seed)
		shaDigest := sha.Digest()
		sha.Close()

		md5 := okapi.MD5.New()
		md5.Write(secret)
		md5.Write(shaDigest)
		out = append(out, md5.Digest()...)
		md5.Close()
	}
	return out[:length]
}

func ssl30MasterSecret(premaster, clientRandom, serverRandom []byte) []byte {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)
	return ssl30Expand(premaster, seed, 48)
}

func ssl30KeyBlock(masterSecret, clientRandom, serverRandom []byte, length int) []byte {
	seed := append(append([]byte{}, serverRandom...), clientRandom...)
	return ssl30Expand(masterSecret, seed, length)
}

// PRF exposes the version-appropriate PRF for callers outside this
// package that need it directly — namely the handshake transcript hash,
// which derives Finished message verify_data from the master secret and a
// transcript digest rather than the hello randoms.
func PRF(version ProtocolVersion, secret, label, seed []byte, length int) []byte {
	return prf(version, secret, label, seed, length)
}

// MasterSecret derives the 48-byte master secret from a premaster secret
// and the hello randoms (RFC 5246 §8.1).
func MasterSecret(version ProtocolVersion, premaster, clientRandom, serverRandom []byte) []byte {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)
	if version == SSL30 {
		return ssl30MasterSecret(premaster, clientRandom, serverRandom)
	}
	return prf(version, premaster, []byte("master secret"), seed, 48)
}

// KeysFromMasterSecret expands a master secret into a KeyBlock sized for
// suite, per RFC 5246 §6.3. The order client-then-server matches the wire
// order the spec's key_block layout requires.
func KeysFromMasterSecret(version ProtocolVersion, suite CipherSuite, masterSecret, clientRandom, serverRandom []byte) KeyBlock {
	seed := append(append([]byte{}, serverRandom...), clientRandom...)

	macLen := suite.MACLen
	keyLen := suite.KeyLen
	ivLen := 0
	if version == TLS10 || version == SSL30 {
		ivLen = suite.IVLen
	}

	total := 2*macLen + 2*keyLen + 2*ivLen
	var block []byte
	if version == SSL30 {
		block = ssl30KeyBlock(masterSecret, clientRandom, serverRandom, total)
	} else {
		block = prf(version, masterSecret, []byte("key expansion"), seed, total)
	}

	kb := KeyBlock{}
	off := 0
	take := func(n int) []byte {
		v := block[off : off+n]
		off += n
		return v
	}
	if macLen > 0 {
		kb.ClientWriteMACKey = take(macLen)
		kb.ServerWriteMACKey = take(macLen)
	}
	kb.ClientKey = take(keyLen)
	kb.ServerKey = take(keyLen)
	if ivLen > 0 {
		kb.ClientIV = take(ivLen)
		kb.ServerIV = take(ivLen)
	}
	return kb
}
