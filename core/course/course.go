package course

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Price is a decimal course price in major currency units. The backend
// serializes it sometimes as a JSON number and sometimes as a decimal
// string, so decoding accepts both.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*p = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	if s == "" {
		*p = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing price %q: %w", s, err)
	}
	*p = Price(f)
	return nil
}

// Minor converts the price to the currency's minor unit, as required by the
// payment gateway.
func (p Price) Minor() int64 {
	return int64(math.Round(float64(p) * 100))
}

type Course struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	Price           Price     `json:"price"`
	Category        string    `json:"category"`
	Thumbnail       string    `json:"thumbnail"`
	IsApproved      bool      `json:"is_approved"`
	IsEnrolled      bool      `json:"is_enrolled"`
	EnrollmentCount int       `json:"enrollment_count"`
	CompletionRate  float64   `json:"completion_rate"`
	CreatedAt       time.Time `json:"created_at"`
}

// Free reports whether enrolling requires no payment.
func (c Course) Free() bool { return c.Price <= 0 }

type CourseNew struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
}

type CourseUp struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Category    *string  `json:"category,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
}
