package models

// Contract binds a student to a specialty for a period
type Contract struct {
	ID        int64   `json:"idContrat"`
	Specialty string  `json:"specialite"`
	StartDate Date    `json:"dateDebutContrat"`
	EndDate   Date    `json:"dateFinContrat"`
	Archived  bool    `json:"archive"`
	Amount    float64 `json:"montantContrat,omitempty"`
}

// Active reports whether the contract covers day and is not archived
func (c Contract) Active(day Date) bool {
	if c.Archived {
		return false
	}
	if !c.StartDate.IsZero() && day.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(day) {
		return false
	}
	return true
}
