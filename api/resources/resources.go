// FilePath: api/resources/resources.go
package resources

import (
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/service"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Snapshots *SnapshotHandlers
	System    *SystemHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *service.Service, mon *monitoring.Service) *Resources {
	return &Resources{
		Snapshots: &SnapshotHandlers{service: svc},
		System:    &SystemHandlers{service: svc, monitoring: mon},
	}
}
