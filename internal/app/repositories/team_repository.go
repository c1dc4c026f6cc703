package repositories

import (
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/remote"
)

// TeamRepository reads and writes teams on the backend
type TeamRepository struct {
	*resource[models.Team]
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(client *remote.Client, opts ...Option) *TeamRepository {
	return &TeamRepository{
		resource: newResource(client, "team", "equipe", func(t models.Team) int64 { return t.ID }, opts),
	}
}
