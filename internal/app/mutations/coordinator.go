// Package mutations sequences user-initiated writes: validate locally, guard
// against duplicate submissions, call the backend, then reload the affected
// collections. It never edits a snapshot itself.
package mutations

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/pkg/validation"
)

// Action keys of the busy guard
const (
	ActionCreate                = "create"
	ActionCreateWithAssignments = "create-with-assignments"
	actionUpdate                = "update"
	actionDelete                = "delete"
	actionAssign                = "assign"
)

// UpdateKey returns the busy key of an update of id
func UpdateKey(id int64) string { return actionUpdate + ":" + strconv.FormatInt(id, 10) }

// DeleteKey returns the busy key of a delete of id
func DeleteKey(id int64) string { return actionDelete + ":" + strconv.FormatInt(id, 10) }

// AssignKey returns the busy key of a department assignment of a student
func AssignKey(id int64) string { return actionAssign + ":" + strconv.FormatInt(id, 10) }

// StudentStore is the remote side of student mutations
type StudentStore interface {
	Create(ctx context.Context, student models.Student) (models.Student, error)
	Update(ctx context.Context, student models.Student) (models.Student, error)
	Delete(ctx context.Context, id int64) error
	AssignToDepartment(ctx context.Context, studentID, departmentID int64) error
	CreateWithAssignments(ctx context.Context, student models.Student, contractID, teamID int64) (models.Student, error)
}

// Refresher is a view-model that reflects mutations by reloading
type Refresher interface {
	Name() string
	ReplaceAfterMutation(ctx context.Context) error
}

// Coordinator runs student mutations
type Coordinator struct {
	store   StudentStore
	targets []Refresher
	logger  zerolog.Logger

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewCoordinator creates a coordinator that reloads targets after every
// successful mutation
func NewCoordinator(store StudentStore, logger zerolog.Logger, targets ...Refresher) *Coordinator {
	return &Coordinator{
		store:   store,
		targets: targets,
		logger:  logger.With().Str("component", "mutations").Logger(),
		busy:    make(map[string]struct{}),
	}
}

// Busy reports whether the action with key is outstanding
func (c *Coordinator) Busy(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.busy[key]
	return ok
}

// SubmitCreate validates form and creates the student
func (c *Coordinator) SubmitCreate(ctx context.Context, form StudentForm) (models.Student, error) {
	form = form.normalized()
	if err := validation.Struct(form); err != nil {
		return models.Student{}, err
	}

	var created models.Student
	err := c.run(ctx, ActionCreate, func() error {
		var err error
		created, err = c.store.Create(ctx, form.Student())
		return err
	})
	return created, err
}

// SubmitUpdate validates form and replaces the student with id
func (c *Coordinator) SubmitUpdate(ctx context.Context, id int64, form StudentForm) (models.Student, error) {
	form = form.normalized()
	if err := validateAll(identityForm{ID: id}, form); err != nil {
		return models.Student{}, err
	}

	student := form.Student()
	student.ID = id

	var updated models.Student
	err := c.run(ctx, UpdateKey(id), func() error {
		var err error
		updated, err = c.store.Update(ctx, student)
		return err
	})
	return updated, err
}

// SubmitDelete removes the student with id
func (c *Coordinator) SubmitDelete(ctx context.Context, id int64) error {
	if err := validation.Struct(identityForm{ID: id}); err != nil {
		return err
	}
	return c.run(ctx, DeleteKey(id), func() error {
		return c.store.Delete(ctx, id)
	})
}

// SubmitCreateWithAssignments creates a student bound to a contract and a team
func (c *Coordinator) SubmitCreateWithAssignments(ctx context.Context, form StudentForm, contractID, teamID int64) (models.Student, error) {
	full := assignmentsForm{StudentForm: form.normalized(), ContractID: contractID, TeamID: teamID}
	if err := validation.Struct(full); err != nil {
		return models.Student{}, err
	}

	var created models.Student
	err := c.run(ctx, ActionCreateWithAssignments, func() error {
		var err error
		created, err = c.store.CreateWithAssignments(ctx, full.Student(), contractID, teamID)
		return err
	})
	return created, err
}

// SubmitAssignDepartment assigns a student to a department
func (c *Coordinator) SubmitAssignDepartment(ctx context.Context, studentID, departmentID int64) error {
	if err := validation.Struct(departmentForm{StudentID: studentID, DepartmentID: departmentID}); err != nil {
		return err
	}
	return c.run(ctx, AssignKey(studentID), func() error {
		return c.store.AssignToDepartment(ctx, studentID, departmentID)
	})
}

// run holds the busy flag of key around call and reloads the targets when
// call succeeds. A failed reload does not fail the mutation; the affected
// collection reports it through its own state.
func (c *Coordinator) run(ctx context.Context, key string, call func() error) error {
	if !c.acquire(key) {
		c.logger.Debug().Str("action", key).Msg("Rejected duplicate submission")
		return apperrors.ErrBusy
	}
	defer c.release(key)

	if err := call(); err != nil {
		c.logger.Warn().Err(err).Str("action", key).Msg("Mutation failed")
		return err
	}
	c.logger.Info().Str("action", key).Msg("Mutation succeeded")

	for _, target := range c.targets {
		if err := target.ReplaceAfterMutation(ctx); err != nil {
			c.logger.Warn().Err(err).Str("action", key).Str("collection", target.Name()).Msg("Reload after mutation failed")
		}
	}
	return nil
}

func (c *Coordinator) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.busy[key]; ok {
		return false
	}
	c.busy[key] = struct{}{}
	return true
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.busy, key)
}

// validateAll validates every form and merges the field errors
func validateAll(forms ...interface{}) error {
	var fields []apperrors.FieldError
	for _, f := range forms {
		err := validation.Struct(f)
		if err == nil {
			continue
		}
		verr, ok := err.(*apperrors.ValidationError)
		if !ok {
			return err
		}
		fields = append(fields, verr.Fields...)
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidationError(fields...)
}
