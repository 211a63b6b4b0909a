package course

import (
	"context"
	"fmt"

	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/validate"
)

func List(ctx context.Context, cl *client.Client) ([]Course, error) {
	var out []Course
	if err := cl.Get(ctx, client.Courses, "courses/", &out); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return out, nil
}

func Fetch(ctx context.Context, cl *client.Client, id int) (Course, error) {
	var out Course
	if err := cl.Get(ctx, client.Courses, fmt.Sprintf("courses/%d/", id), &out); err != nil {
		return Course{}, fmt.Errorf("fetching course[%d]: %w", id, err)
	}
	return out, nil
}

func Create(ctx context.Context, cl *client.Client, cn CourseNew) (Course, error) {
	if err := validate.Check(cn); err != nil {
		return Course{}, err
	}

	var out Course
	if err := cl.Post(ctx, client.Courses, "courses/", cn, &out); err != nil {
		return Course{}, fmt.Errorf("creating course: %w", err)
	}
	return out, nil
}

func Update(ctx context.Context, cl *client.Client, id int, cu CourseUp) (Course, error) {
	if err := validate.Check(cu); err != nil {
		return Course{}, err
	}

	var out Course
	if err := cl.Put(ctx, client.Courses, fmt.Sprintf("courses/%d/", id), cu, &out); err != nil {
		return Course{}, fmt.Errorf("updating course[%d]: %w", id, err)
	}
	return out, nil
}

func Delete(ctx context.Context, cl *client.Client, id int) error {
	if err := cl.Delete(ctx, client.Courses, fmt.Sprintf("courses/%d/", id), nil); err != nil {
		return fmt.Errorf("deleting course[%d]: %w", id, err)
	}
	return nil
}

// Approve and Reject drive the admin moderation workflow.

func Approve(ctx context.Context, cl *client.Client, id int) error {
	if err := cl.Post(ctx, client.Courses, fmt.Sprintf("courses/%d/approve/", id), nil, nil); err != nil {
		return fmt.Errorf("approving course[%d]: %w", id, err)
	}
	return nil
}

func Reject(ctx context.Context, cl *client.Client, id int) error {
	if err := cl.Post(ctx, client.Courses, fmt.Sprintf("courses/%d/reject/", id), nil, nil); err != nil {
		return fmt.Errorf("rejecting course[%d]: %w", id, err)
	}
	return nil
}
