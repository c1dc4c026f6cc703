package dto

import (
	"time"

	"github.com/yigit/kaddem/internal/app/aggregator"
	"github.com/yigit/kaddem/internal/app/viewmodel"
)

// CollectionStatus describes the loading state behind a response
type CollectionStatus struct {
	Name     string     `json:"name" example:"students"`
	State    string     `json:"state" example:"ready" enums:"idle,loading,ready,failed"`
	Count    int        `json:"count" example:"12"`
	Stale    bool       `json:"stale"` // failed, serving an older snapshot
	LoadedAt *time.Time `json:"loadedAt,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// NewCollectionStatus converts a view-model status
func NewCollectionStatus(s viewmodel.Status) CollectionStatus {
	out := CollectionStatus{
		Name:  s.Name,
		State: s.State.String(),
		Count: s.Count,
		Stale: s.State == viewmodel.Failed && s.HasSnapshot,
	}
	if !s.LoadedAt.IsZero() {
		loadedAt := s.LoadedAt
		out.LoadedAt = &loadedAt
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return out
}

// StatsResponse is the dashboard summary panel
type StatsResponse struct {
	Stats       []aggregator.StatCount `json:"stats"`
	Collections []CollectionStatus     `json:"collections"`
}

// HistogramResponse is the students-by-option panel
type HistogramResponse struct {
	aggregator.Histogram
	Students CollectionStatus `json:"students"`
}

// StudentListResponse is the searchable student table
type StudentListResponse struct {
	Students []aggregator.DisplayRow `json:"students"`
	Search   string                  `json:"search,omitempty"`
	Matched  int                     `json:"matched" example:"3"`
	Total    int                     `json:"total" example:"12"`
	Status   CollectionStatus        `json:"status"`
}

// RecentStudentsResponse is the recent students panel
type RecentStudentsResponse struct {
	Students []aggregator.RecentStudent `json:"students"`
	Status   CollectionStatus           `json:"status"`
}

// DepartmentStudentsResponse lists the students of the selected department
type DepartmentStudentsResponse struct {
	DepartmentID int64                   `json:"departmentId" example:"1"`
	Department   string                  `json:"department" example:"Computer Science"`
	Students     []aggregator.DisplayRow `json:"students"`
	Status       CollectionStatus        `json:"status"`
}

// CollectionResponse is a plain collection with its status
type CollectionResponse[T any] struct {
	Items  []T              `json:"items"`
	Status CollectionStatus `json:"status"`
}

// RefreshResponse reports a reload of every collection
type RefreshResponse struct {
	State       string             `json:"state" example:"partial" enums:"ready,partial,failed"`
	Collections []CollectionStatus `json:"collections"`
}

// HealthResponse is the liveness answer
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Backend string `json:"backend" example:"http://localhost:8089"`
}
