package mutations

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/app/viewmodel"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore is an in-memory backend that assigns ids from nextID
type fakeStore struct {
	mu       sync.Mutex
	students []models.Student
	nextID   int64
	calls    int
	failWith error
	gate     chan struct{}
	entered  chan struct{}
	assigned map[int64]int64
}

func newFakeStore(students ...models.Student) *fakeStore {
	return &fakeStore{students: students, nextID: 42, assigned: map[int64]int64{}}
}

func (f *fakeStore) enter() error {
	f.mu.Lock()
	f.calls++
	gate, entered, failWith := f.gate, f.entered, f.failWith
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return failWith
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) List(context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeStore) Create(_ context.Context, s models.Student) (models.Student, error) {
	if err := f.enter(); err != nil {
		return models.Student{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID
	f.nextID++
	f.students = append(f.students, s)
	return s, nil
}

func (f *fakeStore) Update(_ context.Context, s models.Student) (models.Student, error) {
	if err := f.enter(); err != nil {
		return models.Student{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.students {
		if f.students[i].ID == s.ID {
			f.students[i] = s
			return s, nil
		}
	}
	return models.Student{}, apperrors.NewNotFoundError("student", s.ID)
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if err := f.enter(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.students {
		if f.students[i].ID == id {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFoundError("student", id)
}

func (f *fakeStore) AssignToDepartment(_ context.Context, studentID, departmentID int64) error {
	if err := f.enter(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned[studentID] = departmentID
	return nil
}

func (f *fakeStore) CreateWithAssignments(ctx context.Context, s models.Student, _, _ int64) (models.Student, error) {
	return f.Create(ctx, s)
}

func setup(t *testing.T, seed ...models.Student) (*fakeStore, *viewmodel.Collection[models.Student], *Coordinator) {
	t.Helper()
	store := newFakeStore(seed...)
	students := viewmodel.NewCollection("students", store.List)
	require.NoError(t, students.Load(context.Background()))
	return store, students, NewCoordinator(store, zerolog.Nop(), students)
}

func TestSubmitCreate_EmptyFirstNameFailsLocally(t *testing.T) {
	store, students, coord := setup(t)

	_, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "  ", LastName: "Lovelace"})

	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "firstName", verr.Fields[0].Field)
	assert.Equal(t, "First name is required", verr.Fields[0].Message)

	assert.Zero(t, store.callCount())
	assert.Equal(t, 0, students.Len())
}

func TestSubmitCreate_InvalidOption(t *testing.T) {
	store, _, coord := setup(t)

	_, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace", Option: "ARCTIC"})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	_, ok := verr.Field("option")
	assert.True(t, ok)
	assert.Zero(t, store.callCount())
}

func TestSubmitCreate_ReloadContainsAssignedID(t *testing.T) {
	_, students, coord := setup(t, models.Student{ID: 1, FirstName: "Alan", LastName: "Turing"})

	created, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace", Option: models.OptionSE})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	matches := 0
	for _, s := range students.Snapshot() {
		if s.ID == 42 {
			matches++
			assert.Equal(t, "Ada", s.FirstName)
			assert.Equal(t, "Lovelace", s.LastName)
		}
	}
	assert.Equal(t, 1, matches)
	assert.Equal(t, 2, students.Len())
}

func TestSubmitDelete_UnknownIDIsNotFound(t *testing.T) {
	seed := []models.Student{{ID: 1, FirstName: "Alan", LastName: "Turing"}}
	_, students, coord := setup(t, seed...)
	before := students.Snapshot()

	err := coord.SubmitDelete(context.Background(), 999)

	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
	assert.Equal(t, before, students.Snapshot())
}

func TestSubmitDelete_RemovesAfterConfirmation(t *testing.T) {
	_, students, coord := setup(t, models.Student{ID: 1}, models.Student{ID: 2})

	require.NoError(t, coord.SubmitDelete(context.Background(), 1))

	assert.Equal(t, []models.Student{{ID: 2}}, students.Snapshot())
}

func TestSubmitUpdate(t *testing.T) {
	_, students, coord := setup(t, models.Student{ID: 7, FirstName: "Grace", LastName: "Hopper"})

	updated, err := coord.SubmitUpdate(context.Background(), 7, StudentForm{FirstName: "Grace", LastName: "Murray", Option: models.OptionSIM})

	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)
	snap := students.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Murray", snap[0].LastName)
	assert.Equal(t, models.OptionSIM, snap[0].Option)
}

func TestSubmitUpdate_MissingIDAndNames(t *testing.T) {
	store, _, coord := setup(t)

	_, err := coord.SubmitUpdate(context.Background(), 0, StudentForm{})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"id", "firstName", "lastName"} {
		_, ok := verr.Field(field)
		assert.True(t, ok, field)
	}
	assert.Zero(t, store.callCount())
}

func TestSubmitCreate_NetworkFailureLeavesSnapshot(t *testing.T) {
	store, students, coord := setup(t, models.Student{ID: 1})
	store.failWith = apperrors.NewNetworkError("create student", errors.New("connection refused"))

	_, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace"})

	require.ErrorIs(t, err, apperrors.ErrNetworkFailed)
	assert.Equal(t, []models.Student{{ID: 1}}, students.Snapshot())
	assert.False(t, coord.Busy(ActionCreate))
}

func TestSubmitCreateWithAssignments_RequiresSelections(t *testing.T) {
	store, _, coord := setup(t)

	_, err := coord.SubmitCreateWithAssignments(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace"}, 0, 0)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	contract, ok := verr.Field("contractId")
	require.True(t, ok)
	assert.Equal(t, "Please select a contract", contract.Message)
	team, ok := verr.Field("teamId")
	require.True(t, ok)
	assert.Equal(t, "Please select a team", team.Message)
	assert.Zero(t, store.callCount())
}

func TestSubmitCreateWithAssignments(t *testing.T) {
	_, students, coord := setup(t)

	created, err := coord.SubmitCreateWithAssignments(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace"}, 3, 4)

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, 1, students.Len())
}

func TestSubmitAssignDepartment(t *testing.T) {
	store, _, coord := setup(t, models.Student{ID: 5})

	err := coord.SubmitAssignDepartment(context.Background(), 5, 0)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	dep, ok := verr.Field("departmentId")
	require.True(t, ok)
	assert.Equal(t, "Please select a department", dep.Message)

	require.NoError(t, coord.SubmitAssignDepartment(context.Background(), 5, 2))
	assert.Equal(t, int64(2), store.assigned[5])
}

func TestBusyGuard(t *testing.T) {
	store, _, coord := setup(t, models.Student{ID: 5})
	store.gate = make(chan struct{})
	store.entered = make(chan struct{}, 4)

	first := make(chan error, 1)
	go func() {
		_, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace"})
		first <- err
	}()
	<-store.entered
	assert.True(t, coord.Busy(ActionCreate))

	_, err := coord.SubmitCreate(context.Background(), StudentForm{FirstName: "Ada", LastName: "Lovelace"})
	assert.ErrorIs(t, err, apperrors.ErrBusy)
	assert.Equal(t, 1, store.callCount())

	// A different action key is not blocked by the outstanding create.
	second := make(chan error, 1)
	go func() { second <- coord.SubmitDelete(context.Background(), 5) }()
	<-store.entered
	assert.Equal(t, 2, store.callCount())

	close(store.gate)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
	assert.False(t, coord.Busy(ActionCreate))
	assert.False(t, coord.Busy(DeleteKey(5)))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "update:7", UpdateKey(7))
	assert.Equal(t, "delete:7", DeleteKey(7))
	assert.Equal(t, "assign:7", AssignKey(7))
}
