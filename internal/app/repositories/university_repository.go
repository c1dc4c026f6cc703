package repositories

import (
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/remote"
)

// UniversityRepository reads and writes universities on the backend
type UniversityRepository struct {
	*resource[models.University]
}

// NewUniversityRepository creates a new university repository
func NewUniversityRepository(client *remote.Client, opts ...Option) *UniversityRepository {
	return &UniversityRepository{
		resource: newResource(client, "university", "universite", func(u models.University) int64 { return u.ID }, opts),
	}
}
