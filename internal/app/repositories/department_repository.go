package repositories

import (
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/remote"
)

// DepartmentRepository reads and writes departments on the backend
type DepartmentRepository struct {
	*resource[models.Department]
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(client *remote.Client, opts ...Option) *DepartmentRepository {
	return &DepartmentRepository{
		resource: newResource(client, "department", "departement", func(d models.Department) int64 { return d.ID }, opts),
	}
}
