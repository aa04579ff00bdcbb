//go:build smokebin

package main

import (
	"bytes"
	goCrypto "crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/sirupsen/logrus"

	httpApp "github.com/oxygenesis/signchain/internal/app/http"
	"github.com/oxygenesis/signchain/internal/crypto"
	"github.com/oxygenesis/signchain/internal/logging"
	"github.com/oxygenesis/signchain/internal/service"
	"github.com/oxygenesis/signchain/internal/storage"
	"github.com/oxygenesis/signchain/internal/validation"
)

const apiPrefix = "/v1"

var log = logrus.New()

// must fails the smoke test immediately with a helpful message.
func must(ok bool, msg string, args ...any) {
	if !ok {
		log.Fatalf("SMOKE FAIL: "+msg, args...)
	}
}

type deviceResp struct {
	ID               string `json:"id"`
	Algorithm        string `json:"algorithm"`
	Label            string `json:"label"`
	SignatureCounter uint64 `json:"signature_counter"`
	LastSignature    string `json:"last_signature"`
	PublicKey        string `json:"public_key"`
}

type signResp struct {
	Signature  string `json:"signature"`
	SignedData string `json:"signed_data"`
}

func main() {
	// Wire the app with an in-process server (no real port binding).
	engine := crypto.NewEngine(crypto.DefaultRSABits)
	svc := service.New(storage.NewMemory(), engine, engine, validation.DefaultRules(), logging.Discard())

	ts := httptest.NewServer(httpApp.NewHandler(svc, logging.Discard()))
	defer ts.Close()

	do := func(method, path string, body any) (int, []byte) {
		var rdr io.Reader
		if body != nil {
			b, _ := json.Marshal(body)
			rdr = bytes.NewReader(b)
		}
		req, _ := http.NewRequest(method, ts.URL+path, rdr)
		req.Header.Set("content-type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		log.WithFields(logrus.Fields{"method": method, "path": path, "status": resp.StatusCode}).Info(strings.TrimSpace(string(b)))
		return resp.StatusCode, b
	}

	// 1) Health
	code, body := do("GET", apiPrefix+"/health", nil)
	must(code == 200, "health status=%d", code)
	must(strings.Contains(string(body), `"pass"`), "health body=%s", string(body))

	for _, alg := range []string{"RSA", "EC"} {
		deviceID := "dev-" + strings.ToLower(alg)

		// 2) Create device
		code, body = do("POST", apiPrefix+"/devices", map[string]any{"id": deviceID, "algorithm": alg, "label": "L"})
		must(code == 201, "create status=%d body=%s", code, string(body))

		var devOut deviceResp
		if err := json.Unmarshal(body, &devOut); err != nil {
			log.Fatalf("SMOKE FAIL: create unmarshal: %v", err)
		}
		must(devOut.ID == deviceID, "unexpected id: %q", devOut.ID)
		must(devOut.Algorithm == alg, "unexpected algorithm: %q", devOut.Algorithm)
		must(devOut.SignatureCounter == 0, "counter=%d", devOut.SignatureCounter)
		must(devOut.LastSignature == "", "last_signature should be absent on create")
		must(strings.HasPrefix(devOut.PublicKey, "-----BEGIN"), "missing public key PEM")
		must(!strings.Contains(string(body), "PRIVATE"), "private key leaked")

		// 3) Sign a short chain and check linkage
		seed := base64.StdEncoding.EncodeToString([]byte(deviceID))
		var last signResp
		for i, data := range []string{"hello", "world", "again"} {
			code, body = do("POST", apiPrefix+"/devices/"+deviceID+"/sign", map[string]any{"data": data})
			must(code == 200, "sign status=%d body=%s", code, string(body))

			var sr signResp
			if err := json.Unmarshal(body, &sr); err != nil {
				log.Fatalf("SMOKE FAIL: sign unmarshal: %v", err)
			}
			want := fmt.Sprintf("%d_%s_%s", i, base64.StdEncoding.EncodeToString([]byte(data)), seed)
			must(sr.SignedData == want, "signed_data=%q want %q", sr.SignedData, want)

			verify(alg, sr.Signature, sr.SignedData, devOut.PublicKey)
			seed = sr.Signature
			last = sr
		}

		// 4) Get device; counter advanced and last_signature matches
		code, body = do("GET", apiPrefix+"/devices/"+deviceID, nil)
		must(code == 200, "get status=%d body=%s", code, string(body))
		var dev2 deviceResp
		if err := json.Unmarshal(body, &dev2); err != nil {
			log.Fatalf("SMOKE FAIL: get unmarshal: %v", err)
		}
		must(dev2.SignatureCounter == 3, "counter=%d", dev2.SignatureCounter)
		must(dev2.LastSignature == last.Signature, "last_signature mismatch")

		// 5) Server-side verify, genuine and tampered
		code, body = do("POST", apiPrefix+"/devices/"+deviceID+"/verify", last)
		must(code == 200 && strings.Contains(string(body), "true"), "verify genuine=%d %s", code, string(body))
		last.SignedData = strings.Replace(last.SignedData, "2_", "3_", 1)
		code, body = do("POST", apiPrefix+"/devices/"+deviceID+"/verify", last)
		must(code == 200 && strings.Contains(string(body), "false"), "verify tampered=%d %s", code, string(body))
	}

	// 6) Error mapping
	code, _ = do("POST", apiPrefix+"/devices", map[string]any{"id": "dev-rsa", "algorithm": "RSA"})
	must(code == 409, "duplicate status=%d", code)
	code, _ = do("POST", apiPrefix+"/devices/missing/sign", map[string]any{"data": "x"})
	must(code == 404, "missing device status=%d", code)

	log.Info("SMOKE OK")
}

// verify checks the signature against signedData with the PEM public key,
// independently of the service's own engine.
func verify(alg, sigB64, signedData, pubPEM string) {
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	must(err == nil, "decode signature: %v", err)

	block, _ := pem.Decode([]byte(pubPEM))
	must(block != nil, "pem decode failed")

	digest := sha256.Sum256([]byte(signedData))

	switch alg {
	case "RSA":
		must(block.Type == "RSA PUBLIC KEY", "unexpected PEM type %q", block.Type)
		pub, err := x509.ParsePKCS1PublicKey(block.Bytes)
		must(err == nil, "parse PKCS#1 public key: %v", err)
		err = rsa.VerifyPKCS1v15(pub, goCrypto.SHA256, digest[:], sig)
		must(err == nil, "rsa verify failed: %v", err)
	case "EC":
		must(block.Type == "SECP256K1 PUBLIC KEY", "unexpected PEM type %q", block.Type)
		pub, err := secp256k1.ParsePubKey(block.Bytes)
		must(err == nil, "parse secp256k1 public key: %v", err)
		s, err := ecdsa.ParseDERSignature(sig)
		must(err == nil, "parse DER signature: %v", err)
		must(s.Verify(digest[:], pub), "secp256k1 verify failed")
	default:
		must(false, "unexpected algorithm %q", alg)
	}
}
