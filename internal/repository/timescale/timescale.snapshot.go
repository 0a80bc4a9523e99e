// FilePath: internal/repository/timescale/timescale.snapshot.go
package timescale

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/itsatony/irrigador/internal/database"
	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
)

const latestSnapshotQuery = `
		SELECT id, device_id, timestamp, soil_humidity, temperature,
			air_humidity, general_status, last_watering
		FROM sensor_snapshots
		WHERE device_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

type SnapshotRepo struct {
	TimeScaleBaseRepo
}

func NewSnapshotRepository(db database.DB) *SnapshotRepo {
	return &SnapshotRepo{TimeScaleBaseRepo: TimeScaleBaseRepo{db: db}}
}

// InitializeSchema creates the snapshot hypertable. Rows are written by the
// ingestion pipeline; no retention policy is installed.
func (r *SnapshotRepo) InitializeSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sensor_snapshots (
			id TEXT NOT NULL,
			device_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			soil_humidity DOUBLE PRECISION,
			temperature DOUBLE PRECISION,
			air_humidity DOUBLE PRECISION,
			general_status TEXT,
			last_watering TIMESTAMPTZ,
			PRIMARY KEY (id, timestamp)
		)`,
		`SELECT create_hypertable('sensor_snapshots', 'timestamp',
			chunk_time_interval => INTERVAL '1 day',
			if_not_exists => TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sensor_snapshots_device_timestamp
         ON sensor_snapshots(device_id, timestamp DESC)`,
	}

	if err := r.execAll(ctx, queries); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// GetLatest leaves ties on timestamp to the database's own row order.
func (r *SnapshotRepo) GetLatest(ctx context.Context, deviceID string) (*models.SensorSnapshot, error) {
	snapshot := &models.SensorSnapshot{}

	err := r.db.GetDB().GetContext(ctx, snapshot, latestSnapshotQuery, deviceID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("snapshot not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get latest snapshot", err)
	}
	return snapshot, nil
}
