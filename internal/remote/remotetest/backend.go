// Package remotetest runs an in-memory Kaddem backend for tests.
package remotetest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/kaddem/internal/app/models"
	"github.com/yigit/kaddem/internal/remote"
)

// Recorded is one request seen by the backend
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Backend mimics the Kaddem REST endpoints. Lookups of unknown ids answer
// 200 with an empty body like the real service; updates and deletes of
// unknown ids answer 404.
type Backend struct {
	server *httptest.Server

	mu           sync.Mutex
	students     []models.Student
	contracts    []models.Contract
	departments  []models.Department
	teams        []models.Team
	universities []models.University
	assignments  map[int64]int64
	nextID       int64
	requests     []Recorded
	failures     map[string]int
	delay        map[string]time.Duration
}

// Seed is the initial content of a backend
type Seed struct {
	Students     []models.Student
	Contracts    []models.Contract
	Departments  []models.Department
	Teams        []models.Team
	Universities []models.University
	// NextID is the first id assigned on create, 42 when zero
	NextID int64
	// ContextPath is the path every resource is served under, "kaddem"
	// when empty
	ContextPath string
}

// NewBackend starts a backend that is closed when the test ends
func NewBackend(t testing.TB, seed Seed) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		students:     append([]models.Student(nil), seed.Students...),
		contracts:    append([]models.Contract(nil), seed.Contracts...),
		departments:  append([]models.Department(nil), seed.Departments...),
		teams:        append([]models.Team(nil), seed.Teams...),
		universities: append([]models.University(nil), seed.Universities...),
		assignments:  make(map[int64]int64),
		nextID:       seed.NextID,
		failures:     make(map[string]int),
		delay:        make(map[string]time.Duration),
	}
	if b.nextID == 0 {
		b.nextID = 42
	}
	for _, s := range seed.Students {
		if id, ok := s.DepartmentID(); ok {
			b.assignments[s.ID] = id
		}
	}

	contextPath := seed.ContextPath
	if contextPath == "" {
		contextPath = "kaddem"
	}
	b.server = httptest.NewServer(b.router(contextPath))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend root
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns a remote client pointed at the backend
func (b *Backend) Client(t testing.TB) *remote.Client {
	t.Helper()
	c, err := remote.NewClient(remote.Config{BaseURL: b.URL(), Timeout: 2 * time.Second, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("remote client: %v", err)
	}
	return c
}

// Fail makes every request whose path contains fragment answer status
func (b *Backend) Fail(fragment string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[fragment] = status
}

// Heal removes every injected failure
func (b *Backend) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}

// Delay holds every request whose path contains fragment for d
func (b *Backend) Delay(fragment string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[fragment] = d
}

// Requests returns the requests seen so far
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// Students returns the stored students
func (b *Backend) Students() []models.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Student(nil), b.students...)
}

// Assignment returns the department a student is assigned to
func (b *Backend) Assignment(studentID int64) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.assignments[studentID]
	return id, ok
}

func (b *Backend) router(contextPath string) *gin.Engine {
	r := gin.New()
	r.Use(b.record)

	k := r.Group("/" + contextPath)

	e := k.Group("/etudiant")
	e.GET("/retrieve-all-etudiants", func(c *gin.Context) { b.list(c, func() interface{} { return b.students }) })
	e.GET("/retrieve-etudiant/:id", b.getStudent)
	e.POST("/add-etudiant", b.addStudent)
	e.POST("/add-assign-Etudiant/:contractId/:teamId", b.addStudent)
	e.PUT("/update-etudiant", b.updateStudent)
	e.DELETE("/remove-etudiant/:id", b.removeStudent)
	e.PUT("/affecter-etudiant-departement/:studentId/:departmentId", b.assign)
	e.GET("/getEtudiantsByDepartement/:id", b.byDepartment)

	k.GET("/contrat/retrieve-all-contrats", func(c *gin.Context) { b.list(c, func() interface{} { return b.contracts }) })
	k.GET("/departement/retrieve-all-departements", func(c *gin.Context) { b.list(c, func() interface{} { return b.departments }) })
	k.GET("/equipe/retrieve-all-equipes", func(c *gin.Context) { b.list(c, func() interface{} { return b.teams }) })
	k.GET("/universite/retrieve-all-universites", func(c *gin.Context) { b.list(c, func() interface{} { return b.universities }) })
	return r
}

func (b *Backend) record(c *gin.Context) {
	b.mu.Lock()
	b.requests = append(b.requests, Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader(remote.RequestIDHeader),
	})
	status := 0
	var wait time.Duration
	for fragment, s := range b.failures {
		if strings.Contains(c.Request.URL.Path, fragment) {
			status = s
		}
	}
	for fragment, d := range b.delay {
		if strings.Contains(c.Request.URL.Path, fragment) {
			wait = d
		}
	}
	b.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"message": "injected failure"})
		return
	}
	c.Next()
}

func (b *Backend) list(c *gin.Context, items func() interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, items())
}

func paramID(c *gin.Context, name string) int64 {
	id, _ := strconv.ParseInt(c.Param(name), 10, 64)
	return id
}

func (b *Backend) findStudent(id int64) int {
	for i, s := range b.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) getStudent(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findStudent(paramID(c, "id"))
	if i < 0 {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, b.students[i])
}

func (b *Backend) addStudent(c *gin.Context) {
	var s models.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = b.nextID
	b.nextID++
	b.students = append(b.students, s)
	c.JSON(http.StatusOK, s)
}

func (b *Backend) updateStudent(c *gin.Context) {
	var s models.Student
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findStudent(s.ID)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	s.Department = b.students[i].Department
	b.students[i] = s
	c.JSON(http.StatusOK, s)
}

func (b *Backend) removeStudent(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findStudent(paramID(c, "id"))
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	b.students = append(b.students[:i], b.students[i+1:]...)
	c.Status(http.StatusOK)
}

func (b *Backend) assign(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	studentID, departmentID := paramID(c, "studentId"), paramID(c, "departmentId")
	i := b.findStudent(studentID)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	b.assignments[studentID] = departmentID
	b.students[i].Department = &models.Department{ID: departmentID}
	for _, d := range b.departments {
		if d.ID == departmentID {
			b.students[i].Department.Name = d.Name
		}
	}
	c.Status(http.StatusOK)
}

func (b *Backend) byDepartment(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := paramID(c, "id")
	out := []models.Student{}
	for _, s := range b.students {
		if b.assignments[s.ID] == id {
			out = append(out, s)
		}
	}
	c.JSON(http.StatusOK, out)
}
