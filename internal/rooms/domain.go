package rooms

import (
	"time"

	"github.com/google/uuid"
)

// Room is a physical room periods can be scheduled into.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Verification is an inspection record a class staff member files for a room.
// The code is the public identifier printed on the inspection sheet.
type Verification struct {
	ID          int64     `json:"id"`
	Code        uuid.UUID `json:"code"`
	RoomID      int64     `json:"roomId"`
	CourseID    int64     `json:"courseId"`
	ClassNumber int       `json:"classNumber"`
	VerifiedBy  int64     `json:"verifiedBy"`
	Condition   string    `json:"condition"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}
