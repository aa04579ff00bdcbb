package domain

// KeyPair holds PEM encoded key material for one device.
type KeyPair struct {
	Public  string
	Private string
}

// KeyGenerator creates fresh key pairs for an algorithm.
type KeyGenerator interface {
	Generate(alg Algorithm) (KeyPair, error)
}

// SignatureEngine signs and verifies payloads over opaque key material.
// Verify reports false for any mismatched or malformed input and never fails.
type SignatureEngine interface {
	Sign(alg Algorithm, payload string, privateKey string) (string, error)
	Verify(alg Algorithm, payload, signature, publicKey string) bool
}
