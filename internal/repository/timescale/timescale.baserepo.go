package timescale

import (
	"context"

	"github.com/itsatony/irrigador/internal/database"
	"github.com/itsatony/irrigador/internal/errors"
)

type TimeScaleBaseRepo struct {
	db database.DB
}

func (r *TimeScaleBaseRepo) execAll(ctx context.Context, queries []string) error {
	for _, query := range queries {
		if _, err := r.db.GetDB().ExecContext(ctx, query); err != nil {
			return errors.NewDatabaseError("failed to execute query", err)
		}
	}
	return nil
}

// Ping checks the connection; the health endpoint reports the store as down
// when it fails.
func (r *TimeScaleBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}
