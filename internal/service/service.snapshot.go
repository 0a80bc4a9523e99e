package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
)

// MsgBackendFailure is the only text callers see when the store fails.
const MsgBackendFailure = "internal error while querying the database"

// LatestSnapshot returns the newest snapshot for deviceID. Errors are always
// *errors.APIError: validation, not_found (message names the device) or
// database (generic message, cause kept internal).
func (s *Service) LatestSnapshot(ctx context.Context, deviceID string) (*models.SensorSnapshot, error) {
	if strings.TrimSpace(deviceID) == "" {
		return nil, errors.NewValidationError("device id is required", nil)
	}

	snapshot, err := s.snapshots.GetLatest(ctx, deviceID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.emit(EventSnapshotMissing, deviceID)
			return nil, errors.NewNotFoundError(fmt.Sprintf("no document found for device %s", deviceID), err)
		}
		s.emit(EventSnapshotFailed, deviceID)
		return nil, errors.NewDatabaseError(MsgBackendFailure, err)
	}

	s.emit(EventSnapshotServed, deviceID)
	return snapshot, nil
}
