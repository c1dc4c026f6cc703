package repositories

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/remote"
)

// StudentRepository reads and writes students on the backend, including
// the composite assignment operations.
type StudentRepository struct {
	*resource[models.Student]
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(client *remote.Client, opts ...Option) *StudentRepository {
	return &StudentRepository{
		resource: newResource(client, "student", "etudiant", func(s models.Student) int64 { return s.ID }, opts),
	}
}

func (r *StudentRepository) path(segments ...string) string {
	p := r.paths.root
	for _, s := range segments {
		p += "/" + s
	}
	return p
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ListByDepartment retrieves the students assigned to a department
func (r *StudentRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Student, error) {
	var students []models.Student
	err := r.client.Do(ctx, remote.Request{
		Action:   "list students by department",
		Method:   http.MethodGet,
		Path:     r.path("getEtudiantsByDepartement", itoa(departmentID)),
		Resource: "department",
		ID:       departmentID,
	}, &students)
	if remote.IsEmptyBody(err) {
		return []models.Student{}, nil
	}
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// AssignToDepartment links a student to a department. The relation is
// resolved remotely and the student record keeps its shape.
func (r *StudentRepository) AssignToDepartment(ctx context.Context, studentID, departmentID int64) error {
	return r.client.Do(ctx, remote.Request{
		Action:   "assign student to department",
		Method:   http.MethodPut,
		Path:     r.path("affecter-etudiant-departement", itoa(studentID), itoa(departmentID)),
		Resource: "student",
		ID:       studentID,
	}, nil)
}

// CreateWithAssignments creates a student already bound to a contract and a team
func (r *StudentRepository) CreateWithAssignments(ctx context.Context, student models.Student, contractID, teamID int64) (models.Student, error) {
	var created models.Student
	action := "create student with assignments"
	err := r.client.Do(ctx, remote.Request{
		Action: action,
		Method: http.MethodPost,
		Path:   r.path("add-assign-Etudiant", itoa(contractID), itoa(teamID)),
		Body:   student,
	}, &created)
	if remote.IsEmptyBody(err) {
		return created, apperrors.NewNetworkError(action, fmt.Errorf("backend returned no student"))
	}
	return created, err
}
