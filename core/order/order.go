package order

import (
	"time"

	"github.com/SanjuMs7/online-course-marketplace/core/course"
)

type Status string

const (
	Created Status = "CREATED"
	Paid    Status = "PAID"
	Failed  Status = "FAILED"
)

// Order is a payment intent record bridging a cart item to a gateway
// transaction. The client only ever reads it.
type Order struct {
	ID             int           `json:"id"`
	User           int           `json:"user"`
	CourseID       int           `json:"course"`
	Course         course.Course `json:"course_details"`
	Amount         course.Price  `json:"amount"`
	Status         Status        `json:"status"`
	GatewayOrderID string        `json:"razorpay_order_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
