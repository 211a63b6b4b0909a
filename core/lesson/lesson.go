package lesson

import "time"

type Lesson struct {
	ID              int    `json:"id"`
	Course          int    `json:"course"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	Order           int    `json:"order"`
	DurationMinutes *int   `json:"duration_minutes"`
}

type LessonNew struct {
	Course          int    `json:"course" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	Order           int    `json:"order" validate:"required,gte=1"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" validate:"omitempty,gte=0"`
}

type LessonUp struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	VideoURL        *string `json:"video_url,omitempty"`
	Order           *int    `json:"order,omitempty" validate:"omitempty,gte=1"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,gte=0"`
}

// Progress is the per-student completion record for one lesson.
type Progress struct {
	ID          int        `json:"id"`
	Student     int        `json:"student"`
	Lesson      int        `json:"lesson"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
}
