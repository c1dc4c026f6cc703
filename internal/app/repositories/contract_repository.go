package repositories

import (
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/remote"
)

// ContractRepository reads and writes contracts on the backend
type ContractRepository struct {
	*resource[models.Contract]
}

// NewContractRepository creates a new contract repository
func NewContractRepository(client *remote.Client, opts ...Option) *ContractRepository {
	return &ContractRepository{
		resource: newResource(client, "contract", "contrat", func(c models.Contract) int64 { return c.ID }, opts),
	}
}
