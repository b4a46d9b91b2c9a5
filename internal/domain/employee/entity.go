package employee

import (
	"time"
)

type Employee struct {
	ID        string
	Code      string
	FirstName string
	LastName  string
	PINHash   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
