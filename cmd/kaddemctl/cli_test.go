package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/remote/remotetest"
)

func newBackend(t *testing.T) (*remotetest.Backend, string) {
	t.Helper()
	backend := remotetest.NewBackend(t, remotetest.Seed{
		Students: []models.Student{
			{ID: 1, FirstName: "Alan", LastName: "Turing", Option: models.OptionSE, Department: &models.Department{ID: 10}},
			{ID: 2, FirstName: "Grace", LastName: "Hopper", Option: models.OptionSE},
			{ID: 3, FirstName: "Katherine", LastName: "Johnson", Option: models.OptionNIDS},
		},
		Departments:  []models.Department{{ID: 10, Name: "Computer Science"}},
		Teams:        []models.Team{{ID: 1, Name: "Blue"}},
		Universities: []models.University{{ID: 1, Name: "ESPRIT"}},
	})
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("backend:\n  base_url: %s\n  timeout: 2s\n", backend.URL())
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return backend, path
}

func run(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestStats(t *testing.T) {
	backend, cfg := newBackend(t)
	backend.Fail("retrieve-all-contrats", http.StatusInternalServerError)

	out, errOut, err := run(t, cfg, "stats")

	require.NoError(t, err)
	for _, label := range []string{"Students", "Contracts", "Departments", "Teams", "Universities"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "0 (unavailable)")
	assert.Contains(t, errOut, "contracts unavailable")
}

func TestHistogram(t *testing.T) {
	_, cfg := newBackend(t)

	out, _, err := run(t, cfg, "histogram")

	require.NoError(t, err)
	assert.Contains(t, out, "GAMIX")
	assert.Contains(t, out, "SIM")
	assert.Contains(t, out, "3 students with an option")
}

func TestRecent(t *testing.T) {
	_, cfg := newBackend(t)

	out, _, err := run(t, cfg, "recent")

	require.NoError(t, err)
	assert.Contains(t, out, "alan.turing@university.edu")
	assert.Contains(t, out, "Computer Science")
	assert.Contains(t, out, "Unknown Dept")
	assert.Contains(t, out, "pending")
}

func TestStudentsList_Search(t *testing.T) {
	_, cfg := newBackend(t)

	out, _, err := run(t, cfg, "students", "list", "--search", "HOP")

	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper")
	assert.NotContains(t, out, "Alan Turing")
	assert.Contains(t, out, "1 of 3 students")
}

func TestStudentsByDepartment(t *testing.T) {
	_, cfg := newBackend(t)

	out, _, err := run(t, cfg, "students", "by-department", "10")

	require.NoError(t, err)
	assert.Contains(t, out, "Computer Science (10)")
	assert.Contains(t, out, "Alan Turing")
	assert.NotContains(t, out, "Grace Hopper")
}

func TestStudentsCreate(t *testing.T) {
	backend, cfg := newBackend(t)

	out, _, err := run(t, cfg, "students", "create", "--first", "Ada", "--last", "Lovelace", "--option", "sim")

	require.NoError(t, err)
	assert.Contains(t, out, "created student 42: Ada Lovelace")
	students := backend.Students()
	require.Len(t, students, 4)
	assert.Equal(t, models.OptionSIM, students[3].Option)
}

func TestStudentsCreate_WithAssignments(t *testing.T) {
	backend, cfg := newBackend(t)

	_, _, err := run(t, cfg, "students", "create", "--first", "Ada", "--last", "Lovelace", "--contract", "3")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorContains(t, err, "Please select a team")
	assert.Empty(t, backend.Requests())

	_, _, err = run(t, cfg, "students", "create", "--first", "Ada", "--last", "Lovelace", "--contract", "3", "--team", "1")
	require.NoError(t, err)

	var paths []string
	for _, r := range backend.Requests() {
		paths = append(paths, r.Method+" "+r.Path)
	}
	assert.Contains(t, paths, "POST /kaddem/etudiant/add-assign-Etudiant/3/1")
}

func TestStudentsCreate_MissingName(t *testing.T) {
	backend, cfg := newBackend(t)

	_, _, err := run(t, cfg, "students", "create", "--last", "Lovelace")

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorContains(t, err, "First name is required")
	assert.Empty(t, backend.Requests())
}

func TestStudentsUpdateDeleteAssign(t *testing.T) {
	backend, cfg := newBackend(t)

	out, _, err := run(t, cfg, "students", "update", "2", "--first", "Grace", "--last", "Murray")
	require.NoError(t, err)
	assert.Contains(t, out, "updated student 2: Grace Murray")

	out, _, err = run(t, cfg, "students", "assign", "2", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "assigned student 2 to department 10")
	dep, ok := backend.Assignment(2)
	require.True(t, ok)
	assert.Equal(t, int64(10), dep)

	out, _, err = run(t, cfg, "students", "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted student 3")

	_, _, err = run(t, cfg, "students", "delete", "999")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInvalidID(t *testing.T) {
	_, cfg := newBackend(t)

	_, _, err := run(t, cfg, "students", "delete", "abc")

	assert.ErrorContains(t, err, `invalid student id "abc"`)
}

func TestRefresh_AllFailed(t *testing.T) {
	backend, cfg := newBackend(t)
	backend.Fail("/kaddem/", http.StatusServiceUnavailable)

	out, _, err := run(t, cfg, "refresh")

	assert.ErrorIs(t, err, apperrors.ErrNetworkFailed)
	assert.Contains(t, out, "refresh failed")
}
