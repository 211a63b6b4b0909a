package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/validate"
)

// ErrNotConfirmed rejects a deletion that was not explicitly confirmed.
var ErrNotConfirmed = errors.New("deletion not confirmed")

type submission struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// Form keeps one review per (student, course) on the client side as a UX
// affordance; the server remains the source of truth. On load it detects the
// student's existing review and Submit then updates instead of creating.
type Form struct {
	cl        *client.Client
	courseID  int
	studentID int
	current   *Review
}

func Load(ctx context.Context, cl *client.Client, courseID, studentID int) (*Form, error) {
	reviews, err := ListByCourse(ctx, cl, courseID)
	if err != nil {
		return nil, err
	}

	f := &Form{cl: cl, courseID: courseID, studentID: studentID}
	for i := range reviews {
		if reviews[i].Student == studentID {
			f.current = &reviews[i]
			break
		}
	}
	return f, nil
}

// Existing returns the student's review detected on load or written since.
func (f *Form) Existing() (Review, bool) {
	if f.current == nil {
		return Review{}, false
	}
	return *f.current, true
}

// Submit validates locally first: a missing or out-of-range rating blocks
// the submission with no network call made.
func (f *Form) Submit(ctx context.Context, rating int, comment string) (Review, error) {
	sub := submission{Rating: rating, Comment: comment}
	if err := validate.Check(sub); err != nil {
		return Review{}, err
	}

	var out Review
	if f.current == nil {
		path := fmt.Sprintf("courses/%d/reviews/", f.courseID)
		if err := f.cl.Post(ctx, client.Courses, path, sub, &out); err != nil {
			return Review{}, fmt.Errorf("creating review for course[%d]: %w", f.courseID, err)
		}
	} else {
		path := fmt.Sprintf("reviews/%d/", f.current.ID)
		if err := f.cl.Patch(ctx, client.Courses, path, sub, &out); err != nil {
			return Review{}, fmt.Errorf("updating review[%d]: %w", f.current.ID, err)
		}
	}

	f.current = &out
	return out, nil
}

// Delete removes the student's review. The caller must pass an explicit
// confirmation; on success the form reverts to the no-review state.
func (f *Form) Delete(ctx context.Context, confirmed bool) error {
	if f.current == nil {
		return nil
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	path := fmt.Sprintf("reviews/%d/", f.current.ID)
	if err := f.cl.Delete(ctx, client.Courses, path, nil); err != nil {
		return fmt.Errorf("deleting review[%d]: %w", f.current.ID, err)
	}

	f.current = nil
	return nil
}
