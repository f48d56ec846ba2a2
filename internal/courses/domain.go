package courses

import "time"

// Course is a taught subject that classes are organized under.
type Course struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
