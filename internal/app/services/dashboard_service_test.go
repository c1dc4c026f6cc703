package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/kaddem/internal/app/aggregator"
	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/app/mutations"
	"github.com/yigit/kaddem/internal/app/repositories"
	"github.com/yigit/kaddem/internal/app/viewmodel"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/remote/remotetest"
)

var fixedNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*DashboardService, *remotetest.Backend) {
	t.Helper()
	backend := remotetest.NewBackend(t, remotetest.Seed{
		Students: []models.Student{
			{ID: 1, FirstName: "Alan", LastName: "Turing", Option: models.OptionSE, Department: &models.Department{ID: 10}},
			{ID: 2, FirstName: "Grace", LastName: "Hopper", Option: models.OptionSE},
			{ID: 3, FirstName: "Katherine", LastName: "Johnson", Option: models.OptionGAMIX, Department: &models.Department{ID: 11}},
			{ID: 4, FirstName: "Edsger", LastName: "Dijkstra"},
		},
		Contracts:    []models.Contract{{ID: 1, Specialty: "IA"}},
		Departments:  []models.Department{{ID: 10, Name: "Computer Science"}, {ID: 11, Name: "Mathematics"}},
		Teams:        []models.Team{{ID: 1, Name: "Blue"}, {ID: 2, Name: "Red"}},
		Universities: []models.University{{ID: 1, Name: "ESPRIT"}},
	})
	repos := repositories.NewRepositories(backend.Client(t))
	svc := NewDashboardService(repos, DashboardOptions{RecentLimit: 3, Now: func() time.Time { return fixedNow }}, zerolog.Nop())
	return svc, backend
}

func TestRefresh_AllReady(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ready", resp.State)
	require.Len(t, resp.Collections, 5)
	for _, c := range resp.Collections {
		assert.Equal(t, "ready", c.State, c.Name)
	}
}

func TestStats_PartialFailureKeepsFiveRows(t *testing.T) {
	svc, backend := newService(t)
	backend.Fail("retrieve-all-contrats", http.StatusInternalServerError)

	stats := svc.Stats(context.Background())

	require.Len(t, stats.Stats, 5)
	want := map[models.Resource]int{
		models.ResourceStudents:     4,
		models.ResourceContracts:    0,
		models.ResourceDepartments:  2,
		models.ResourceTeams:        2,
		models.ResourceUniversities: 1,
	}
	for _, row := range stats.Stats {
		assert.Equal(t, want[row.Resource], row.Count, row.Label)
	}
	assert.False(t, stats.Stats[1].Available)
	assert.Equal(t, "failed", stats.Collections[1].State)
}

func TestRefresh_AllFailed(t *testing.T) {
	svc, backend := newService(t)
	backend.Fail("/kaddem/", http.StatusServiceUnavailable)

	resp, err := svc.Refresh(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailed)
	assert.Equal(t, "failed", resp.State)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	svc, backend := newService(t)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	backend.Fail("retrieve-all-etudiants", http.StatusBadGateway)
	resp, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.State)

	rows := svc.StudentRows(context.Background(), "")
	assert.Len(t, rows.Students, 4)
	assert.Equal(t, "failed", rows.Status.State)
	assert.True(t, rows.Status.Stale)
}

func TestHistogram(t *testing.T) {
	svc, _ := newService(t)

	h := svc.Histogram(context.Background())

	assert.Equal(t, []aggregator.Bucket{
		{Option: models.OptionGAMIX, Count: 1},
		{Option: models.OptionSE, Count: 2},
		{Option: models.OptionSIM, Count: 0},
		{Option: models.OptionNIDS, Count: 0},
	}, h.Buckets)
	assert.Equal(t, 3, h.Total)
}

func TestStudentRows_Search(t *testing.T) {
	svc, _ := newService(t)

	rows := svc.StudentRows(context.Background(), "JO")

	require.Len(t, rows.Students, 1)
	assert.Equal(t, "Katherine Johnson", rows.Students[0].Name)
	assert.Equal(t, "Mathematics", rows.Students[0].Department)
	assert.Equal(t, "katherine.johnson@university.edu", rows.Students[0].Email)
	assert.Equal(t, 1, rows.Matched)
	assert.Equal(t, 4, rows.Total)

	all := svc.StudentRows(context.Background(), "")
	assert.Len(t, all.Students, 4)
	assert.Equal(t, aggregator.UnknownDepartment, all.Students[1].Department)
}

func TestRecentStudents(t *testing.T) {
	svc, _ := newService(t)

	recent := svc.RecentStudents(context.Background())

	require.Len(t, recent.Students, 3)
	assert.Equal(t, "active", recent.Students[0].Status)
	assert.Equal(t, "inactive", recent.Students[2].Status)
	assert.True(t, recent.Students[1].JoinDate.Equal(fixedNow.Add(-24*time.Hour)))
}

func TestStudent_NotFound(t *testing.T) {
	svc, _ := newService(t)

	row, err := svc.Student(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Johnson", row.LastName)

	_, err = svc.Student(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCreateStudent_ReloadsStudents(t *testing.T) {
	svc, _ := newService(t)
	svc.EnsureLoaded(context.Background())

	row, err := svc.CreateStudent(context.Background(), mutations.StudentForm{FirstName: "Ada", LastName: "Lovelace", Option: models.OptionSIM})

	require.NoError(t, err)
	assert.Equal(t, int64(42), row.ID)
	rows := svc.StudentRows(context.Background(), "lovelace")
	require.Len(t, rows.Students, 1)
	assert.Equal(t, int64(42), rows.Students[0].ID)
	assert.Equal(t, 5, rows.Total)
}

func TestDeleteStudent_UnknownID(t *testing.T) {
	svc, _ := newService(t)
	before := svc.StudentRows(context.Background(), "")

	err := svc.DeleteStudent(context.Background(), 999)

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(999), nf.ID)
	after := svc.StudentRows(context.Background(), "")
	assert.Equal(t, before.Students, after.Students)
}

func TestStudentsByDepartment(t *testing.T) {
	svc, _ := newService(t)
	svc.EnsureLoaded(context.Background())

	resp, err := svc.StudentsByDepartment(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.DepartmentID)
	assert.Equal(t, "Computer Science", resp.Department)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, "Turing", resp.Students[0].LastName)
}

func TestStudentsByDepartment_LastSelectionWins(t *testing.T) {
	svc, backend := newService(t)
	svc.EnsureLoaded(context.Background())
	backend.Delay("getEtudiantsByDepartement/10", 200*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = svc.StudentsByDepartment(context.Background(), 10)
	}()

	// Let the slow selection start before the second one.
	require.Eventually(t, func() bool {
		for _, r := range backend.Requests() {
			if r.Path == "/kaddem/etudiant/getEtudiantsByDepartement/10" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	resp, err := svc.StudentsByDepartment(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.DepartmentID)
	wg.Wait()

	// The slow answer for department 10 arrived last and was discarded.
	snap := svc.byDepartment.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(11), snap[0].DepartmentID)
	require.Len(t, snap[0].Students, 1)
	assert.Equal(t, "Johnson", snap[0].Students[0].LastName)
}

func TestAssignDepartment_RefreshesSelection(t *testing.T) {
	svc, _ := newService(t)
	svc.EnsureLoaded(context.Background())

	_, err := svc.StudentsByDepartment(context.Background(), 10)
	require.NoError(t, err)

	require.NoError(t, svc.AssignDepartment(context.Background(), 2, 10))

	resp, err := svc.StudentsByDepartment(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, resp.Students, 2)
}

func TestSubscribeStatus_ForwardsEveryTransition(t *testing.T) {
	svc, backend := newService(t)
	backend.Fail("retrieve-all-contrats", http.StatusInternalServerError)

	var (
		mu     sync.Mutex
		events []dto.CollectionStatus
	)
	svc.SubscribeStatus(func(st dto.CollectionStatus) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, st)
	})

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	last := make(map[string]dto.CollectionStatus)
	loading := make(map[string]bool)
	for _, ev := range events {
		if ev.State == "loading" {
			loading[ev.Name] = true
		}
		last[ev.Name] = ev
	}
	require.Len(t, last, 5)
	for name, ev := range last {
		assert.True(t, loading[name], name)
		if name == string(models.ResourceContracts) {
			assert.Equal(t, "failed", ev.State)
			assert.NotEmpty(t, ev.Error)
			continue
		}
		assert.Equal(t, "ready", ev.State, name)
	}
}

func TestStats_ReloadKeepsPreviousCounts(t *testing.T) {
	svc, backend := newService(t)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	backend.Delay("retrieve-all-etudiants", 300*time.Millisecond)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool {
		return svc.students.State() == viewmodel.Loading
	}, time.Second, 5*time.Millisecond)

	stats := svc.Stats(context.Background())
	hist := svc.Histogram(context.Background())
	<-done

	students := stats.Stats[0]
	assert.Equal(t, models.ResourceStudents, students.Resource)
	assert.True(t, students.Available)
	assert.Equal(t, 4, students.Count)
	assert.Equal(t, "loading", stats.Collections[0].State)
	assert.Equal(t, 3, hist.Histogram.Count(models.OptionSE)+hist.Histogram.Count(models.OptionGAMIX))
}

func TestStats_FirstLoadInFlightIsUnavailable(t *testing.T) {
	svc, backend := newService(t)
	backend.Delay("retrieve-all-contrats", 300*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool {
		for _, c := range svc.collections() {
			if c.Status().State == viewmodel.Idle {
				return false
			}
		}
		return svc.contracts.State() == viewmodel.Loading
	}, time.Second, 5*time.Millisecond)

	stats := svc.Stats(context.Background())
	<-done

	assert.False(t, stats.Stats[1].Available)
	assert.Equal(t, 0, stats.Stats[1].Count)
}
