package order

import (
	"context"
	"fmt"

	"github.com/SanjuMs7/online-course-marketplace/client"
)

// ListMine returns the authenticated user's orders, newest first.
func ListMine(ctx context.Context, cl *client.Client) ([]Order, error) {
	var out []Order
	if err := cl.Get(ctx, client.Orders, "orders/user-orders/", &out); err != nil {
		return nil, fmt.Errorf("listing user orders: %w", err)
	}
	return out, nil
}

// ListEarnings returns the paid orders for courses taught by the
// authenticated instructor.
func ListEarnings(ctx context.Context, cl *client.Client) ([]Order, error) {
	var out []Order
	if err := cl.Get(ctx, client.Orders, "orders/instructor-earnings/", &out); err != nil {
		return nil, fmt.Errorf("listing instructor earnings: %w", err)
	}
	return out, nil
}
