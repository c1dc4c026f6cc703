package models

// Team groups students working together
type Team struct {
	ID    int64  `json:"idEquipe"`
	Name  string `json:"nomEquipe"`
	Level string `json:"niveau"`
}
