package cart

import (
	"github.com/SanjuMs7/online-course-marketplace/core/course"
)

// Item is a pending-purchase association between the student and a course.
// The backend owns it; the client holds a read-through copy per load, with a
// denormalized course snapshot for display and totals.
type Item struct {
	ID       int           `json:"id"`
	CourseID int           `json:"course"`
	Course   course.Course `json:"course_details"`
}

type ItemNew struct {
	CourseID int `json:"course_id"`
}
