package review

import (
	"context"
	"fmt"
	"time"

	"github.com/SanjuMs7/online-course-marketplace/client"
)

type Review struct {
	ID          int       `json:"id"`
	Course      int       `json:"course"`
	Student     int       `json:"student"`
	StudentName string    `json:"student_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ListByCourse(ctx context.Context, cl *client.Client, courseID int) ([]Review, error) {
	var out []Review
	if err := cl.Get(ctx, client.Courses, fmt.Sprintf("courses/%d/reviews/", courseID), &out); err != nil {
		return nil, fmt.Errorf("listing reviews for course[%d]: %w", courseID, err)
	}
	return out, nil
}
