package service

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oxygenesis/signchain/internal/domain"
	"github.com/oxygenesis/signchain/internal/metrics"
)

// SignedPayload builds the string that is actually signed:
// <counter>_<base64(data)>_<seed>.
func SignedPayload(counter uint64, data, seed string) string {
	return fmt.Sprintf("%d_%s_%s", counter, base64.StdEncoding.EncodeToString([]byte(data)), seed)
}

// Sign appends one link to the device's signature chain. The whole
// read-sign-write step holds the device lock; if signing fails nothing is
// written and the counter does not move.
func (s *DeviceService) Sign(id string, data string) (*domain.SignatureResult, error) {
	if data == "" {
		return nil, fmt.Errorf("%w: data is required", domain.ErrInvalidInput)
	}

	var out *domain.SignatureResult
	err := s.repo.WithDeviceLock(id, func() error {
		dev, err := s.repo.FindByID(id)
		if err != nil {
			return err
		}
		start := time.Now()
		alg := string(dev.Algorithm)

		payload := SignedPayload(dev.SignatureCounter, data, dev.ChainSeed())
		sig, err := s.engine.Sign(dev.Algorithm, payload, dev.PrivateKey)
		if err != nil {
			metrics.Signatures.WithLabelValues(alg, metrics.OutcomeFailure).Inc()
			return fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
		}

		counter := dev.SignatureCounter
		dev.Advance(sig)
		if err := s.repo.Update(dev); err != nil {
			metrics.Signatures.WithLabelValues(alg, metrics.OutcomeFailure).Inc()
			return err
		}

		metrics.Signatures.WithLabelValues(alg, metrics.OutcomeSuccess).Inc()
		metrics.SignDuration.WithLabelValues(alg).Observe(time.Since(start).Seconds())
		s.log.WithFields(logrus.Fields{"device": id, "counter": counter}).Debug("signature appended")

		out = &domain.SignatureResult{Signature: sig, SignedData: payload}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
