package classes

import (
	"time"

	"github.com/schedulo/schedulo/internal/authz"
)

// Class is one cohort of a course, identified by the course and a class
// number unique within it.
type Class struct {
	CourseID  int64     `json:"courseId"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Membership is the standing a user holds within one class. At most one
// membership exists per (user, course, class number) triple.
type Membership struct {
	UserID      int64                `json:"userId"`
	CourseID    int64                `json:"courseId"`
	ClassNumber int                  `json:"classNumber"`
	Type        authz.MembershipType `json:"type"`
	CreatedAt   time.Time            `json:"createdAt"`
}
