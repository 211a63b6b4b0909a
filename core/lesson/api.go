package lesson

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/validate"
)

func ListByCourse(ctx context.Context, cl *client.Client, courseID int) ([]Lesson, error) {
	var out []Lesson
	if err := cl.Get(ctx, client.Courses, fmt.Sprintf("courses/%d/lessons/", courseID), &out); err != nil {
		return nil, fmt.Errorf("listing lessons for course[%d]: %w", courseID, err)
	}
	return out, nil
}

// Create posts a new lesson. When a video file is attached the request goes
// out as multipart form data, otherwise as plain JSON.
func Create(ctx context.Context, cl *client.Client, ln LessonNew, video io.Reader, videoName string) (Lesson, error) {
	if err := validate.Check(ln); err != nil {
		return Lesson{}, err
	}

	var out Lesson
	if video == nil {
		if err := cl.Post(ctx, client.Courses, "lessons/create/", ln, &out); err != nil {
			return Lesson{}, fmt.Errorf("creating lesson: %w", err)
		}
		return out, nil
	}

	fields := map[string]string{
		"course": strconv.Itoa(ln.Course),
		"title":  ln.Title,
		"order":  strconv.Itoa(ln.Order),
	}
	if ln.Description != "" {
		fields["description"] = ln.Description
	}
	if ln.DurationMinutes != nil {
		fields["duration_minutes"] = strconv.Itoa(*ln.DurationMinutes)
	}

	if err := cl.Upload(ctx, client.Courses, "lessons/create/", fields, "video", videoName, video, &out); err != nil {
		return Lesson{}, fmt.Errorf("creating lesson with video: %w", err)
	}
	return out, nil
}

func Update(ctx context.Context, cl *client.Client, id int, up LessonUp) (Lesson, error) {
	if err := validate.Check(up); err != nil {
		return Lesson{}, err
	}

	var out Lesson
	if err := cl.Put(ctx, client.Courses, fmt.Sprintf("lessons/%d/update/", id), up, &out); err != nil {
		return Lesson{}, fmt.Errorf("updating lesson[%d]: %w", id, err)
	}
	return out, nil
}

func Delete(ctx context.Context, cl *client.Client, id int) error {
	if err := cl.Delete(ctx, client.Courses, fmt.Sprintf("lessons/%d/delete/", id), nil); err != nil {
		return fmt.Errorf("deleting lesson[%d]: %w", id, err)
	}
	return nil
}

type completion struct {
	IsCompleted bool `json:"is_completed"`
}

// Complete marks (or unmarks) a lesson as finished for the current student.
func Complete(ctx context.Context, cl *client.Client, id int, done bool) error {
	if err := cl.Post(ctx, client.Courses, fmt.Sprintf("lessons/%d/complete/", id), completion{IsCompleted: done}, nil); err != nil {
		return fmt.Errorf("completing lesson[%d]: %w", id, err)
	}
	return nil
}

func CourseProgress(ctx context.Context, cl *client.Client, courseID int) ([]Progress, error) {
	var out []Progress
	if err := cl.Get(ctx, client.Courses, fmt.Sprintf("courses/%d/progress/", courseID), &out); err != nil {
		return nil, fmt.Errorf("fetching progress for course[%d]: %w", courseID, err)
	}
	return out, nil
}
