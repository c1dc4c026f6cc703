package models

// Student is a student record as served by the Kaddem backend.
// ID is zero until the backend assigns one and never changes afterwards.
type Student struct {
	ID         int64       `json:"idEtudiant,omitempty" example:"42"`
	FirstName  string      `json:"prenomE" example:"Ada"`
	LastName   string      `json:"nomE" example:"Lovelace"`
	Option     Option      `json:"op,omitempty" example:"SE"`
	Department *Department `json:"departement,omitempty"` // Department reference, resolved by the backend
}

// HasID reports whether the backend has assigned an id
func (s Student) HasID() bool {
	return s.ID > 0
}

// DepartmentID returns the referenced department id, if any
func (s Student) DepartmentID() (int64, bool) {
	if s.Department == nil || s.Department.ID <= 0 {
		return 0, false
	}
	return s.Department.ID, true
}

// FullName joins first and last name
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
