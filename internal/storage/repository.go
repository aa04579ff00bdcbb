package storage

import "github.com/oxygenesis/signchain/internal/domain"

// Repository is the device registry.
//
// FindByID reports an absent device as domain.ErrNotFound. Update replaces the
// stored record wholesale. WithDeviceLock runs fn with exclusive access to the
// device's chain state; calls for the same id are totally ordered, calls for
// different ids do not block each other. The registry itself gives no
// atomicity across calls, callers compose FindByID and Update inside fn.
type Repository interface {
	Create(dev *domain.Device) error
	FindByID(id string) (*domain.Device, error)
	Update(dev *domain.Device) error
	List() ([]*domain.Device, error)
	WithDeviceLock(id string, fn func() error) error
}
