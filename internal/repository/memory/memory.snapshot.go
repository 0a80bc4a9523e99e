package memory

import (
	"context"
	"sync"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
)

// SnapshotRepo keeps snapshots in process memory, in insertion order.
type SnapshotRepo struct {
	mu        sync.RWMutex
	snapshots map[string][]models.SensorSnapshot
}

func NewSnapshotRepository() *SnapshotRepo {
	return &SnapshotRepo{snapshots: make(map[string][]models.SensorSnapshot)}
}

// Add stores a copy of snapshot under its device id.
func (r *SnapshotRepo) Add(snapshot models.SensorSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snapshot.DeviceID] = append(r.snapshots[snapshot.DeviceID], snapshot)
}

// GetLatest scans the device's snapshots for the greatest timestamp.
// On a tie the earliest inserted snapshot wins.
func (r *SnapshotRepo) GetLatest(ctx context.Context, deviceID string) (*models.SensorSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to get latest snapshot", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.snapshots[deviceID]
	if len(stored) == 0 {
		return nil, errors.NewNotFoundError("snapshot not found", nil)
	}

	latest := stored[0]
	for _, s := range stored[1:] {
		if s.Timestamp.After(latest.Timestamp) {
			latest = s
		}
	}
	return &latest, nil
}
