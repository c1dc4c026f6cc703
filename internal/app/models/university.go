package models

// University hosts departments
type University struct {
	ID   int64  `json:"idUniversite"`
	Name string `json:"nomUniversite"`
}
