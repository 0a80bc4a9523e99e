// FilePath: internal/repository/repository.go
package repository

import (
	"context"

	"github.com/itsatony/irrigador/internal/models"
)

// SnapshotRepository reads sensor snapshots from the backing store
type SnapshotRepository interface {
	// GetLatest returns the snapshot with the greatest timestamp for the device,
	// or a not_found APIError when the device has none.
	GetLatest(ctx context.Context, deviceID string) (*models.SensorSnapshot, error)
}

// Pinger is implemented by stores that hold a connection worth checking
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenRepository resolves session tokens issued elsewhere
type TokenRepository interface {
	// Lookup returns the user id bound to token. Unknown tokens yield an
	// authentication APIError; store failures yield a database APIError.
	Lookup(ctx context.Context, token string) (string, error)
}
