package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/kaddem/internal/app/aggregator"
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/app/mutations"
	"github.com/yigit/kaddem/internal/app/repositories"
	"github.com/yigit/kaddem/internal/app/viewmodel"
)

// Text fields searched by the student table
var (
	byFirstName = func(s models.Student) string { return s.FirstName }
	byLastName  = func(s models.Student) string { return s.LastName }
)

// roster is the student list of one department. The by-department
// view-model holds a single roster so its snapshot names the department it
// belongs to.
type roster struct {
	DepartmentID int64
	Students     []models.Student
}

type departmentKey struct{}

// DashboardOptions tunes the derived panels
type DashboardOptions struct {
	RecentLimit int
	EmailDomain string
	Now         func() time.Time
}

// DashboardService composes the view-models, the aggregator and the
// mutation coordinator for the API and the CLI
type DashboardService struct {
	repos   *repositories.Repositories
	builder aggregator.Builder
	recent  int
	now     func() time.Time
	logger  zerolog.Logger

	students     *viewmodel.Collection[models.Student]
	contracts    *viewmodel.Collection[models.Contract]
	departments  *viewmodel.Collection[models.Department]
	teams        *viewmodel.Collection[models.Team]
	universities *viewmodel.Collection[models.University]

	byDepartment *viewmodel.Collection[roster]
	selected     atomic.Int64
	coordinator  *mutations.Coordinator
}

// NewDashboardService creates the service. No collection is loaded yet.
func NewDashboardService(repos *repositories.Repositories, opts DashboardOptions, logger zerolog.Logger) *DashboardService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger = logger.With().Str("component", "dashboard").Logger()
	vmOpts := []viewmodel.Option{viewmodel.WithLogger(logger), viewmodel.WithClock(opts.Now)}

	s := &DashboardService{
		repos:   repos,
		builder: aggregator.Builder{EmailDomain: opts.EmailDomain},
		recent:  opts.RecentLimit,
		now:     opts.Now,
		logger:  logger,

		students:     viewmodel.NewCollection(string(models.ResourceStudents), repos.StudentRepository.List, vmOpts...),
		contracts:    viewmodel.NewCollection(string(models.ResourceContracts), repos.ContractRepository.List, vmOpts...),
		departments:  viewmodel.NewCollection(string(models.ResourceDepartments), repos.DepartmentRepository.List, vmOpts...),
		teams:        viewmodel.NewCollection(string(models.ResourceTeams), repos.TeamRepository.List, vmOpts...),
		universities: viewmodel.NewCollection(string(models.ResourceUniversities), repos.UniversityRepository.List, vmOpts...),
	}
	s.byDepartment = viewmodel.NewCollection("students-by-department", s.loadRoster, vmOpts...)
	s.coordinator = mutations.NewCoordinator(repos.StudentRepository, logger, s.students, s.byDepartment)

	for _, c := range s.collections() {
		logStateChanges(logger, c)
	}
	return s
}

type subscribable interface {
	Subscribe(func(viewmodel.Status))
}

func logStateChanges(logger zerolog.Logger, c subscribable) {
	c.Subscribe(func(st viewmodel.Status) {
		logger.Debug().
			Str("collection", st.Name).
			Str("state", st.State.String()).
			Int("count", st.Count).
			Msg("Collection state changed")
	})
}

type collection interface {
	viewmodel.Loader
	subscribable
	Status() viewmodel.Status
}

func (s *DashboardService) collections() []collection {
	return []collection{s.students, s.contracts, s.departments, s.teams, s.universities}
}

// SubscribeStatus calls fn on every state change of every collection, the
// department roster included
func (s *DashboardService) SubscribeStatus(fn func(dto.CollectionStatus)) {
	forward := func(st viewmodel.Status) { fn(dto.NewCollectionStatus(st)) }
	for _, c := range s.collections() {
		c.Subscribe(forward)
	}
	s.byDepartment.Subscribe(forward)
}

// Coordinator returns the mutation coordinator
func (s *DashboardService) Coordinator() *mutations.Coordinator {
	return s.coordinator
}

// Refresh reloads every collection concurrently
func (s *DashboardService) Refresh(ctx context.Context) (dto.RefreshResponse, error) {
	members := make([]viewmodel.Loader, 0, 5)
	for _, c := range s.collections() {
		members = append(members, c)
	}

	result := viewmodel.LoadAll(ctx, members...)
	if result.State != viewmodel.GroupReady {
		s.logger.Warn().Err(result.Err()).Str("state", result.State.String()).Msg("Dashboard refresh incomplete")
	}

	resp := dto.RefreshResponse{State: result.State.String(), Collections: s.statuses()}
	if result.State == viewmodel.GroupFailed {
		return resp, result.Err()
	}
	return resp, nil
}

// EnsureLoaded refreshes once when any collection was never loaded
func (s *DashboardService) EnsureLoaded(ctx context.Context) {
	for _, c := range s.collections() {
		if c.Status().State == viewmodel.Idle {
			_, _ = s.Refresh(ctx)
			return
		}
	}
}

func (s *DashboardService) statuses() []dto.CollectionStatus {
	out := make([]dto.CollectionStatus, 0, 5)
	for _, c := range s.collections() {
		out = append(out, dto.NewCollectionStatus(c.Status()))
	}
	return out
}

// Stats returns one count per collection in dashboard order
func (s *DashboardService) Stats(ctx context.Context) dto.StatsResponse {
	s.EnsureLoaded(ctx)

	sources := make([]aggregator.Source, 0, 5)
	for _, c := range s.collections() {
		st := c.Status()
		// A reload keeps the previous snapshot visible until it resolves
		sources = append(sources, aggregator.Source{
			Resource: models.Resource(st.Name),
			Count:    st.Count,
			Failed:   st.State == viewmodel.Failed || !st.HasSnapshot,
		})
	}
	return dto.StatsResponse{
		Stats:       aggregator.BuildStatCounts(sources...),
		Collections: s.statuses(),
	}
}

// Histogram counts the loaded students by option
func (s *DashboardService) Histogram(ctx context.Context) dto.HistogramResponse {
	s.EnsureLoaded(ctx)
	return dto.HistogramResponse{
		Histogram: aggregator.BuildOptionHistogram(s.students.Snapshot()),
		Students:  dto.NewCollectionStatus(s.students.Status()),
	}
}

// StudentRows returns the display rows of the students whose first or last
// name contains search
func (s *DashboardService) StudentRows(ctx context.Context, search string) dto.StudentListResponse {
	s.EnsureLoaded(ctx)

	view := s.students.Filter(search, byFirstName, byLastName)
	rows := s.builder.DisplayRows(view.Items(), s.departmentIndex())
	return dto.StudentListResponse{
		Students: rows,
		Search:   search,
		Matched:  len(rows),
		Total:    view.Total(),
		Status:   dto.NewCollectionStatus(s.students.Status()),
	}
}

// RecentStudents returns the recent students panel
func (s *DashboardService) RecentStudents(ctx context.Context) dto.RecentStudentsResponse {
	s.EnsureLoaded(ctx)
	return dto.RecentStudentsResponse{
		Students: s.builder.RecentStudents(s.students.Snapshot(), s.departmentIndex(), s.now(), s.recent),
		Status:   dto.NewCollectionStatus(s.students.Status()),
	}
}

// Student fetches one student from the backend
func (s *DashboardService) Student(ctx context.Context, id int64) (aggregator.DisplayRow, error) {
	student, err := s.repos.StudentRepository.GetByID(ctx, id)
	if err != nil {
		return aggregator.DisplayRow{}, err
	}
	return s.builder.DisplayRow(student, s.departmentIndex()), nil
}

// StudentsByDepartment selects a department and loads its students. When
// selections overlap, the last one initiated is the one shown, so the
// response may name a different department than requested.
func (s *DashboardService) StudentsByDepartment(ctx context.Context, departmentID int64) (dto.DepartmentStudentsResponse, error) {
	s.selected.Store(departmentID)
	err := s.byDepartment.Load(context.WithValue(ctx, departmentKey{}, departmentID))

	resp := dto.DepartmentStudentsResponse{
		DepartmentID: departmentID,
		Students:     []aggregator.DisplayRow{},
		Status:       dto.NewCollectionStatus(s.byDepartment.Status()),
	}
	if snap := s.byDepartment.Snapshot(); len(snap) == 1 {
		resp.DepartmentID = snap[0].DepartmentID
		resp.Students = s.builder.DisplayRows(snap[0].Students, s.departmentIndex())
	}
	if name, ok := s.departmentIndex().Name(resp.DepartmentID); ok {
		resp.Department = name
	} else {
		resp.Department = aggregator.UnknownDepartment
	}
	return resp, err
}

func (s *DashboardService) loadRoster(ctx context.Context) ([]roster, error) {
	id, ok := ctx.Value(departmentKey{}).(int64)
	if !ok {
		id = s.selected.Load()
	}
	if id <= 0 {
		return []roster{}, nil
	}
	students, err := s.repos.StudentRepository.ListByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	return []roster{{DepartmentID: id, Students: students}}, nil
}

// Departments returns the loaded departments
func (s *DashboardService) Departments(ctx context.Context) dto.CollectionResponse[models.Department] {
	s.EnsureLoaded(ctx)
	return collectionResponse(s.departments)
}

// Contracts returns the loaded contracts
func (s *DashboardService) Contracts(ctx context.Context) dto.CollectionResponse[models.Contract] {
	s.EnsureLoaded(ctx)
	return collectionResponse(s.contracts)
}

// Teams returns the loaded teams
func (s *DashboardService) Teams(ctx context.Context) dto.CollectionResponse[models.Team] {
	s.EnsureLoaded(ctx)
	return collectionResponse(s.teams)
}

// Universities returns the loaded universities
func (s *DashboardService) Universities(ctx context.Context) dto.CollectionResponse[models.University] {
	s.EnsureLoaded(ctx)
	return collectionResponse(s.universities)
}

func collectionResponse[T any](c *viewmodel.Collection[T]) dto.CollectionResponse[T] {
	return dto.CollectionResponse[T]{Items: c.Snapshot(), Status: dto.NewCollectionStatus(c.Status())}
}

func (s *DashboardService) departmentIndex() aggregator.DepartmentIndex {
	return aggregator.IndexDepartments(s.departments.Snapshot())
}

// CreateStudent validates and creates a student
func (s *DashboardService) CreateStudent(ctx context.Context, form mutations.StudentForm) (aggregator.DisplayRow, error) {
	student, err := s.coordinator.SubmitCreate(ctx, form)
	if err != nil {
		return aggregator.DisplayRow{}, err
	}
	return s.builder.DisplayRow(student, s.departmentIndex()), nil
}

// CreateStudentWithAssignments creates a student bound to a contract and a team
func (s *DashboardService) CreateStudentWithAssignments(ctx context.Context, form mutations.StudentForm, contractID, teamID int64) (aggregator.DisplayRow, error) {
	student, err := s.coordinator.SubmitCreateWithAssignments(ctx, form, contractID, teamID)
	if err != nil {
		return aggregator.DisplayRow{}, err
	}
	return s.builder.DisplayRow(student, s.departmentIndex()), nil
}

// UpdateStudent validates and replaces a student
func (s *DashboardService) UpdateStudent(ctx context.Context, id int64, form mutations.StudentForm) (aggregator.DisplayRow, error) {
	student, err := s.coordinator.SubmitUpdate(ctx, id, form)
	if err != nil {
		return aggregator.DisplayRow{}, err
	}
	return s.builder.DisplayRow(student, s.departmentIndex()), nil
}

// DeleteStudent removes a student
func (s *DashboardService) DeleteStudent(ctx context.Context, id int64) error {
	return s.coordinator.SubmitDelete(ctx, id)
}

// AssignDepartment assigns a student to a department
func (s *DashboardService) AssignDepartment(ctx context.Context, studentID, departmentID int64) error {
	return s.coordinator.SubmitAssignDepartment(ctx, studentID, departmentID)
}
