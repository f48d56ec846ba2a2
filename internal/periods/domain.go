package periods

import "time"

// Period is a scheduled class session with an assigned teacher and room.
type Period struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	ClassNumber int       `json:"classNumber"`
	TeacherID   int64     `json:"teacherId"`
	RoomID      int64     `json:"roomId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
