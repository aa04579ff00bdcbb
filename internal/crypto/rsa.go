package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"

	"github.com/oxygenesis/signchain/internal/domain"
)

const (
	rsaPublicBlock  = "RSA PUBLIC KEY"
	rsaPrivateBlock = "RSA PRIVATE KEY"
)

var rsaGenerateKey = rsa.GenerateKey

// rsaScheme signs with RSASSA-PKCS1-v1_5 over SHA-256. Keys are PKCS#1.
type rsaScheme struct {
	bits int
}

func (s rsaScheme) generate() (domain.KeyPair, error) {
	k, err := rsaGenerateKey(rand.Reader, s.bits)
	if err != nil {
		return domain.KeyPair{}, err
	}
	return domain.KeyPair{
		Public:  encodePEM(rsaPublicBlock, x509.MarshalPKCS1PublicKey(&k.PublicKey)),
		Private: encodePEM(rsaPrivateBlock, x509.MarshalPKCS1PrivateKey(k)),
	}, nil
}

func (rsaScheme) sign(privateKey string, digest []byte) ([]byte, error) {
	der, err := decodePEM(privateKey, rsaPrivateBlock)
	if err != nil {
		return nil, err
	}
	k, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing rsa private key: %w", err)
	}
	return rsa.SignPKCS1v15(rand.Reader, k, crypto.SHA256, digest)
}

func (rsaScheme) verify(publicKey string, digest, signature []byte) bool {
	der, err := decodePEM(publicKey, rsaPublicBlock)
	if err != nil {
		return false
	}
	k, err := x509.ParsePKCS1PublicKey(der)
	if err != nil {
		return false
	}
	return rsa.VerifyPKCS1v15(k, crypto.SHA256, digest, signature) == nil
}
