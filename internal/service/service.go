package service

import (
	"context"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Events emitted by the service; handlers receive the device id
const (
	EventSnapshotServed  = "snapshot.served"
	EventSnapshotMissing = "snapshot.missing"
	EventSnapshotFailed  = "snapshot.failed"
)

// Service contains all repositories and service-wide dependencies
type Service struct {
	snapshots repository.SnapshotRepository
	events    *nuts.EventEmitter
}

// New creates a new service instance
func New(snapshots repository.SnapshotRepository) *Service {
	return &Service{
		snapshots: snapshots,
		events:    nuts.NewEventEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.snapshots == nil {
		return ErrMissingRepository("snapshots")
	}
	return nil
}

// Ping reports whether the snapshot store is reachable. Stores without a
// connection of their own are always up.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.snapshots.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// OnEvent registers a callback for service events. Every registration is
// kept; handlers run synchronously inside the emitting call.
func (s *Service) OnEvent(event string, handler func(deviceID string)) error {
	if _, err := s.events.On(event, "", handler); err != nil {
		return errors.NewInternalError("failed to register event handler", err)
	}
	return nil
}

func (s *Service) emit(event, deviceID string) {
	if err := s.events.Emit(event, deviceID); err != nil {
		nuts.L.Warnf("[Service] Failed to emit %s for device %s: %v", event, deviceID, err)
	}
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
