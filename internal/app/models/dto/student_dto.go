package dto

import (
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/app/mutations"
)

// StudentRequest is the body of student create and update calls
type StudentRequest struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" example:"Lovelace"`
	Option    string `json:"option,omitempty" example:"SE" enums:"GAMIX,SE,SIM,NIDS"`
}

// Form converts the request into a mutation form
func (r StudentRequest) Form() mutations.StudentForm {
	return mutations.StudentForm{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Option:    models.Option(r.Option),
	}
}

// CreateWithAssignmentsRequest creates a student bound to a contract and a team
type CreateWithAssignmentsRequest struct {
	StudentRequest
	ContractID int64 `json:"contractId" example:"3"`
	TeamID     int64 `json:"teamId" example:"4"`
}
