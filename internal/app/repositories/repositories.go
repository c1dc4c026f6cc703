package repositories

import (
	"github.com/yigit/kaddem/internal/remote"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	ContractRepository   *ContractRepository
	DepartmentRepository *DepartmentRepository
	TeamRepository       *TeamRepository
	UniversityRepository *UniversityRepository
}

// NewRepositories initializes all repositories over one backend client
func NewRepositories(client *remote.Client, opts ...Option) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(client, opts...),
		ContractRepository:   NewContractRepository(client, opts...),
		DepartmentRepository: NewDepartmentRepository(client, opts...),
		TeamRepository:       NewTeamRepository(client, opts...),
		UniversityRepository: NewUniversityRepository(client, opts...),
	}
}
