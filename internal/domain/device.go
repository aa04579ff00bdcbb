package domain

import "encoding/base64"

type Algorithm string

const (
	AlgRSA Algorithm = "RSA"
	AlgEC  Algorithm = "EC"
)

// ParseAlgorithm accepts exactly the tags of the closed algorithm set.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgRSA, AlgEC:
		return Algorithm(s), nil
	default:
		return "", ErrInvalidAlgorithm
	}
}

type Device struct {
	ID               string    `json:"id"`
	Algorithm        Algorithm `json:"algorithm"`
	Label            string    `json:"label,omitempty"`
	SignatureCounter uint64    `json:"signature_counter"`
	LastSignature    *string   `json:"last_signature,omitempty"`
	PublicKey        string    `json:"public_key"`
	PrivateKey       string    `json:"-"`
}

func NewDevice(id string, alg Algorithm, label string, keys KeyPair) *Device {
	return &Device{
		ID:         id,
		Algorithm:  alg,
		Label:      label,
		PublicKey:  keys.Public,
		PrivateKey: keys.Private,
	}
}

// InitialLastSignature returns base64(deviceID), the seed of the first link.
func InitialLastSignature(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// ChainSeed returns the value the next signature is linked to.
func (d *Device) ChainSeed() string {
	if d.LastSignature == nil {
		return InitialLastSignature(d.ID)
	}
	return *d.LastSignature
}

// Advance records sig as the newest link of the chain.
func (d *Device) Advance(sig string) {
	d.SignatureCounter++
	d.LastSignature = &sig
}

func (d *Device) Clone() *Device {
	cp := *d
	if d.LastSignature != nil {
		last := *d.LastSignature
		cp.LastSignature = &last
	}
	return &cp
}

type SignatureResult struct {
	Signature  string `json:"signature"`
	SignedData string `json:"signed_data"`
}
