package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/broadcast"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/core/course"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/sirupsen/logrus"
)

// ViewModel mirrors the server-side cart for the current session. Mutations
// go to the server first; local state only changes on success, so a failure
// never leaves a partial update behind. Every removal is followed by one
// cart-changed broadcast so other views (the cart-count badge) can refresh.
type ViewModel struct {
	cl    *client.Client
	store *session.Store
	hub   *broadcast.Hub
	log   logrus.FieldLogger

	mu    sync.Mutex
	items []Item
}

func NewViewModel(cl *client.Client, store *session.Store, hub *broadcast.Hub, log logrus.FieldLogger) *ViewModel {
	return &ViewModel{
		cl:    cl,
		store: store,
		hub:   hub,
		log:   log,
	}
}

// Load fetches the current cart. An authorization failure means there is no
// usable session and is reported as session.ErrNoSession so the caller
// redirects to login instead of showing a fetch error.
func (vm *ViewModel) Load(ctx context.Context) error {
	var items []Item
	if err := vm.cl.Get(ctx, client.Orders, "orders/cart/", &items); err != nil {
		if apierr.IsKind(err, apierr.KindAuth) {
			return session.ErrNoSession
		}
		return fmt.Errorf("loading cart: %w", err)
	}

	vm.mu.Lock()
	vm.items = items
	vm.mu.Unlock()
	return nil
}

func (vm *ViewModel) Add(ctx context.Context, c course.Course) error {
	if _, err := vm.store.Load(); err != nil {
		return session.ErrNoSession
	}

	var added Item
	if err := vm.cl.Post(ctx, client.Orders, "orders/cart/", ItemNew{CourseID: c.ID}, &added); err != nil {
		return fmt.Errorf("adding course[%d] to cart: %w", c.ID, err)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	for _, it := range vm.items {
		if it.CourseID == c.ID {
			return nil
		}
	}
	if added.Course.ID == 0 {
		added.Course = c
	}
	vm.items = append(vm.items, added)
	return nil
}

func (vm *ViewModel) Remove(ctx context.Context, courseID int) error {
	if err := vm.cl.Delete(ctx, client.Orders, fmt.Sprintf("orders/cart/%d/", courseID), nil); err != nil {
		return fmt.Errorf("removing course[%d] from cart: %w", courseID, err)
	}

	vm.mu.Lock()
	kept := vm.items[:0]
	for _, it := range vm.items {
		if it.CourseID != courseID {
			kept = append(kept, it)
		}
	}
	vm.items = kept
	vm.mu.Unlock()

	vm.hub.Notify()
	return nil
}

// Total sums the denormalized price snapshots. It is derived on every read,
// never cached.
func (vm *ViewModel) Total() course.Price {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	var tot course.Price
	for _, it := range vm.items {
		tot += it.Course.Price
	}
	return tot
}

func (vm *ViewModel) Contains(courseID int) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for _, it := range vm.items {
		if it.CourseID == courseID {
			return true
		}
	}
	return false
}

func (vm *ViewModel) Items() []Item {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	out := make([]Item, len(vm.items))
	copy(out, vm.items)
	return out
}
