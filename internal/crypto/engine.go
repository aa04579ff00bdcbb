package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/oxygenesis/signchain/internal/domain"
)

// DefaultRSABits is the modulus size used when none is configured.
const DefaultRSABits = 2048

// scheme is the per-algorithm capability behind the Engine. Keys travel as
// PEM text; digests are SHA-256 over the UTF-8 payload.
type scheme interface {
	generate() (domain.KeyPair, error)
	sign(privateKey string, digest []byte) ([]byte, error)
	verify(publicKey string, digest, signature []byte) bool
}

// Engine implements domain.KeyGenerator and domain.SignatureEngine over the
// closed algorithm set.
type Engine struct {
	rsa rsaScheme
	ec  ecScheme
}

func NewEngine(rsaBits int) *Engine {
	if rsaBits <= 0 {
		rsaBits = DefaultRSABits
	}
	return &Engine{rsa: rsaScheme{bits: rsaBits}}
}

func (e *Engine) schemeFor(alg domain.Algorithm) (scheme, error) {
	switch alg {
	case domain.AlgRSA:
		return e.rsa, nil
	case domain.AlgEC:
		return e.ec, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAlgorithm, alg)
	}
}

func (e *Engine) Generate(alg domain.Algorithm) (domain.KeyPair, error) {
	s, err := e.schemeFor(alg)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return s.generate()
}

// Sign returns the base64 signature of payload.
func (e *Engine) Sign(alg domain.Algorithm, payload string, privateKey string) (string, error) {
	s, err := e.schemeFor(alg)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(payload))
	raw, err := s.sign(privateKey, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (e *Engine) Verify(alg domain.Algorithm, payload, signature, publicKey string) bool {
	s, err := e.schemeFor(alg)
	if err != nil {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(raw) == 0 {
		return false
	}
	digest := sha256.Sum256([]byte(payload))
	return s.verify(publicKey, digest[:], raw)
}

func encodePEM(blockType string, der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}

func decodePEM(text, blockType string) ([]byte, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	if block.Type != blockType {
		return nil, fmt.Errorf("unexpected PEM block %q, want %q", block.Type, blockType)
	}
	return block.Bytes, nil
}

var (
	_ domain.KeyGenerator    = (*Engine)(nil)
	_ domain.SignatureEngine = (*Engine)(nil)
)
