package crypto

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/oxygenesis/signchain/internal/domain"
)

const (
	ecPublicBlock  = "SECP256K1 PUBLIC KEY"
	ecPrivateBlock = "SECP256K1 PRIVATE KEY"
)

var ecGenerateKey = secp256k1.GeneratePrivateKey

// ecScheme signs with ECDSA over secp256k1 (RFC 6979 nonces, DER signatures).
// The public key is the 33 byte compressed point, the private key the raw
// 32 byte scalar.
type ecScheme struct{}

func (ecScheme) generate() (domain.KeyPair, error) {
	k, err := ecGenerateKey()
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{
		Public:  encodePEM(ecPublicBlock, k.PubKey().SerializeCompressed()),
		Private: encodePEM(ecPrivateBlock, k.Serialize()),
	}, nil
}

func (ecScheme) sign(privateKey string, digest []byte) ([]byte, error) {
	raw, err := decodePEM(privateKey, ecPrivateBlock)
	if err != nil {
		return nil, err
	}
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("secp256k1 private key is %d bytes, want %d", len(raw), secp256k1.PrivKeyBytesLen)
	}
	// scalars >= N are rejected rather than reduced mod N
	var d secp256k1.ModNScalar
	if overflow := d.SetByteSlice(raw); overflow {
		return nil, errors.New("secp256k1 private key is not below the curve order")
	}
	if d.IsZero() {
		return nil, errors.New("secp256k1 private key is zero")
	}
	return ecdsa.Sign(secp256k1.NewPrivateKey(&d), digest).Serialize(), nil
}

func (ecScheme) verify(publicKey string, digest, signature []byte) bool {
	raw, err := decodePEM(publicKey, ecPublicBlock)
	if err != nil {
		return false
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pub)
}
