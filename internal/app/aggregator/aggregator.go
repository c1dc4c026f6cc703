// Package aggregator composes independently fetched collections into the
// records and counts the dashboard displays. Every function here is total:
// missing references and failed collections degrade to sentinels and zeros.
package aggregator

import (
	"strings"

	"github.com/yigit/kaddem/internal/app/models"
)

const (
	// UnknownDepartment labels a student whose department does not resolve
	UnknownDepartment = "Unknown Dept"
	// DefaultEmailDomain is the suffix of synthesized contact addresses
	DefaultEmailDomain = "university.edu"
)

// DepartmentIndex looks departments up by id
type DepartmentIndex map[int64]models.Department

// IndexDepartments builds the id lookup. A later duplicate id wins.
func IndexDepartments(departments []models.Department) DepartmentIndex {
	index := make(DepartmentIndex, len(departments))
	for _, d := range departments {
		index[d.ID] = d
	}
	return index
}

// Name resolves a department id, reporting whether it was found
func (idx DepartmentIndex) Name(id int64) (string, bool) {
	d, ok := idx[id]
	if !ok {
		return "", false
	}
	return d.Name, true
}

// DisplayRow is a student augmented for display
type DisplayRow struct {
	ID         int64         `json:"id"`
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Name       string        `json:"name"`
	Option     models.Option `json:"option,omitempty"`
	Email      string        `json:"email"`
	Department string        `json:"department"`
}

// Builder holds the presentation settings of derived records. The zero
// value uses DefaultEmailDomain.
type Builder struct {
	EmailDomain string
}

func (b Builder) domain() string {
	if b.EmailDomain == "" {
		return DefaultEmailDomain
	}
	return strings.TrimPrefix(b.EmailDomain, "@")
}

// Email synthesizes the contact address of a student. It is not unique.
func (b Builder) Email(s models.Student) string {
	return strings.ToLower(s.FirstName) + "." + strings.ToLower(s.LastName) + "@" + b.domain()
}

// DisplayRow resolves the student's department through departments. With
// an empty index, e.g. when the departments failed to load, the name
// embedded in the student record is used instead.
func (b Builder) DisplayRow(s models.Student, departments DepartmentIndex) DisplayRow {
	label := UnknownDepartment
	if id, ok := s.DepartmentID(); ok {
		if name, found := departments.Name(id); found {
			label = name
		} else if len(departments) == 0 && s.Department.Name != "" {
			label = s.Department.Name
		}
	}
	return DisplayRow{
		ID:         s.ID,
		FirstName:  s.FirstName,
		LastName:   s.LastName,
		Name:       s.FullName(),
		Option:     s.Option,
		Email:      b.Email(s),
		Department: label,
	}
}

// DisplayRows maps every student to a display row, keeping order
func (b Builder) DisplayRows(students []models.Student, departments DepartmentIndex) []DisplayRow {
	rows := make([]DisplayRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, b.DisplayRow(s, departments))
	}
	return rows
}

// BuildDisplayRow is DisplayRow with the default email domain
func BuildDisplayRow(s models.Student, departments DepartmentIndex) DisplayRow {
	return Builder{}.DisplayRow(s, departments)
}
