package aggregator

import (
	"time"

	"github.com/yigit/kaddem/internal/app/models"
)

var statLabels = map[models.Resource]string{
	models.ResourceStudents:     "Students",
	models.ResourceContracts:    "Contracts",
	models.ResourceDepartments:  "Departments",
	models.ResourceTeams:        "Teams",
	models.ResourceUniversities: "Universities",
}

// Source is what a collection contributes to the stat counts
type Source struct {
	Resource models.Resource
	Count    int
	Failed   bool
}

// StatCount is one row of the dashboard summary
type StatCount struct {
	Resource  models.Resource `json:"resource"`
	Label     string          `json:"label"`
	Count     int             `json:"count"`
	Available bool            `json:"available"`
}

// BuildStatCounts returns one row per resource in dashboard order. A
// resource that is missing from sources or failed counts as zero and is
// marked unavailable.
func BuildStatCounts(sources ...Source) []StatCount {
	byResource := make(map[models.Resource]Source, len(sources))
	for _, s := range sources {
		byResource[s.Resource] = s
	}

	resources := models.Resources()
	rows := make([]StatCount, 0, len(resources))
	for _, r := range resources {
		row := StatCount{Resource: r, Label: statLabels[r]}
		if s, ok := byResource[r]; ok && !s.Failed {
			row.Count = s.Count
			row.Available = true
		}
		rows = append(rows, row)
	}
	return rows
}

// Recent student statuses, cycled by position
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"
)

var statusCycle = [...]string{StatusActive, StatusPending, StatusInactive}

// DefaultRecentLimit is the size of the recent students panel
const DefaultRecentLimit = 5

// RecentStudent is a row of the recent students panel
type RecentStudent struct {
	DisplayRow
	JoinDate time.Time `json:"joinDate"`
	Status   string    `json:"status"`
}

// RecentStudents returns the first limit students as display rows. The
// n-th row joined n days before now and its status cycles through active,
// pending and inactive. A non-positive limit uses DefaultRecentLimit.
func (b Builder) RecentStudents(students []models.Student, departments DepartmentIndex, now time.Time, limit int) []RecentStudent {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if len(students) < limit {
		limit = len(students)
	}

	rows := make([]RecentStudent, 0, limit)
	for i, s := range students[:limit] {
		rows = append(rows, RecentStudent{
			DisplayRow: b.DisplayRow(s, departments),
			JoinDate:   now.Add(-time.Duration(i) * 24 * time.Hour),
			Status:     statusCycle[i%len(statusCycle)],
		})
	}
	return rows
}

// BuildRecentStudents is RecentStudents with the default email domain
func BuildRecentStudents(students []models.Student, departments DepartmentIndex, now time.Time, limit int) []RecentStudent {
	return Builder{}.RecentStudents(students, departments, now, limit)
}
