package mutations

import (
	"strings"

	"github.com/yigit/kaddem/internal/app/models"
)

// StudentForm is the user input for creating or editing a student
type StudentForm struct {
	FirstName string        `json:"firstName" validate:"required" message:"First name is required"`
	LastName  string        `json:"lastName" validate:"required" message:"Last name is required"`
	Option    models.Option `json:"option,omitempty" validate:"omitempty,oneof=GAMIX SE SIM NIDS" message:"Please select a valid option"`
}

// normalized trims the text fields so blank names fail the required rule
func (f StudentForm) normalized() StudentForm {
	return StudentForm{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Option:    models.Option(strings.TrimSpace(string(f.Option))),
	}
}

// Student converts the form to a record without id
func (f StudentForm) Student() models.Student {
	return models.Student{FirstName: f.FirstName, LastName: f.LastName, Option: f.Option}
}

// assignmentsForm is a student form plus its contract and team selections
type assignmentsForm struct {
	StudentForm
	ContractID int64 `json:"contractId" validate:"gt=0" message:"Please select a contract"`
	TeamID     int64 `json:"teamId" validate:"gt=0" message:"Please select a team"`
}

// departmentForm is the selection of the assign-to-department action
type departmentForm struct {
	StudentID    int64 `json:"studentId" validate:"gt=0" message:"Please select a student"`
	DepartmentID int64 `json:"departmentId" validate:"gt=0" message:"Please select a department"`
}

// identityForm guards actions on an existing record
type identityForm struct {
	ID int64 `json:"id" validate:"gt=0" message:"Student id is required"`
}
