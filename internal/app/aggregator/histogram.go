package aggregator

import "github.com/yigit/kaddem/internal/app/models"

// Bucket is the count of students holding one option
type Bucket struct {
	Option models.Option `json:"option"`
	Count  int           `json:"count"`
}

// Histogram counts students per option. All four options are always
// present, in canonical order.
type Histogram struct {
	Buckets []Bucket `json:"buckets"`
	Total   int      `json:"total"`
	Max     int      `json:"max"`
}

// Count returns the bucket count of option, zero for unknown options
func (h Histogram) Count(option models.Option) int {
	for _, b := range h.Buckets {
		if b.Option == option {
			return b.Count
		}
	}
	return 0
}

// BuildOptionHistogram counts students by option. Students without a
// recognised option are skipped, so Total may be below len(students).
func BuildOptionHistogram(students []models.Student) Histogram {
	options := models.Options()
	counts := make(map[models.Option]int, len(options))
	for _, s := range students {
		if s.Option.Valid() {
			counts[s.Option]++
		}
	}

	h := Histogram{Buckets: make([]Bucket, 0, len(options))}
	for _, o := range options {
		n := counts[o]
		h.Buckets = append(h.Buckets, Bucket{Option: o, Count: n})
		h.Total += n
		if n > h.Max {
			h.Max = n
		}
	}
	return h
}
