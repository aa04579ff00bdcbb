package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oxygenesis/signchain/internal/domain"
	"github.com/oxygenesis/signchain/internal/metrics"
	"github.com/oxygenesis/signchain/internal/storage"
	"github.com/oxygenesis/signchain/internal/validation"
)

type DeviceService struct {
	repo   storage.Repository
	keys   domain.KeyGenerator
	engine domain.SignatureEngine
	rules  validation.Rules
	log    *logrus.Entry
}

func New(repo storage.Repository, keys domain.KeyGenerator, engine domain.SignatureEngine, rules validation.Rules, log *logrus.Entry) *DeviceService {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DeviceService{
		repo:   repo,
		keys:   keys,
		engine: engine,
		rules:  rules,
		log:    log.WithField("context", "device-service"),
	}
}

// CreateDevice validates the request, generates the key pair and registers
// the device. The registry decides on id conflicts; the early lookup only
// avoids generating keys for an id that is already taken.
func (s *DeviceService) CreateDevice(id, algorithm, label string) (*domain.Device, error) {
	alg, err := s.rules.Device(id, algorithm, label)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(id); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	keys, err := s.keys.Generate(alg)
	if err != nil {
		s.log.WithError(err).WithField("algorithm", alg).Error("key generation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}

	dev := domain.NewDevice(id, alg, label, keys)
	if err := s.repo.Create(dev); err != nil {
		return nil, err
	}

	metrics.DevicesCreated.WithLabelValues(string(alg)).Inc()
	s.log.WithFields(logrus.Fields{"device": id, "algorithm": alg}).Info("device created")
	return dev, nil
}

func (s *DeviceService) GetDevice(id string) (*domain.Device, error) {
	return s.repo.FindByID(id)
}

func (s *DeviceService) ListDevices() ([]*domain.Device, error) {
	return s.repo.List()
}

// UpdateLabel replaces the display label. It runs under the device lock so
// the wholesale record write cannot overwrite a concurrent chain step.
func (s *DeviceService) UpdateLabel(id, label string) (*domain.Device, error) {
	if err := s.rules.Label(label); err != nil {
		return nil, err
	}
	var out *domain.Device
	err := s.repo.WithDeviceLock(id, func() error {
		dev, err := s.repo.FindByID(id)
		if err != nil {
			return err
		}
		dev.Label = label
		if err := s.repo.Update(dev); err != nil {
			return err
		}
		out = dev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Verify checks signature against signedData under the device's public key.
// An invalid signature is a false result, not an error.
func (s *DeviceService) Verify(id, signedData, signature string) (bool, error) {
	dev, err := s.repo.FindByID(id)
	if err != nil {
		return false, err
	}
	ok := s.engine.Verify(dev.Algorithm, signedData, signature, dev.PublicKey)

	outcome := metrics.OutcomeInvalid
	if ok {
		outcome = metrics.OutcomeValid
	}
	metrics.Verifications.WithLabelValues(string(dev.Algorithm), outcome).Inc()
	return ok, nil
}
