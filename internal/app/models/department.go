package models

// Department represents a department of a university
type Department struct {
	ID   int64  `json:"idDepartement"`
	Name string `json:"nomDepart"`
}
