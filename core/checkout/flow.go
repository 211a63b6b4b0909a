// Package checkout orchestrates payment for a course: order creation, the
// third-party gateway widget and server-side verification, ending in an
// enrollment. Free courses bypass the gateway entirely.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/core/course"
	"github.com/SanjuMs7/online-course-marketplace/core/enroll"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/sirupsen/logrus"
)

// ErrBusy rejects a checkout started while another one is outstanding. The
// guard is advisory, the same role the disabled submit button plays in a
// browser.
var ErrBusy = errors.New("a checkout is already in progress")

// ErrCancelled reports that the user dismissed the gateway before paying.
// It is non-fatal: nothing was charged, the cart is unchanged and the user
// may re-initiate.
var ErrCancelled = errors.New("payment cancelled")

// verifiedMessage is the only response body accepted as proof of payment.
// Any other shape, even on HTTP success, is treated as a failure.
const verifiedMessage = "Payment verified successfully"

type orderNew struct {
	CourseID int `json:"course_id"`
}

type orderCreated struct {
	OrderID        int          `json:"order_id"`
	GatewayOrderID string       `json:"razorpay_order_id"`
	Amount         course.Price `json:"amount"`
	Currency       string       `json:"currency"`
	Key            string       `json:"razorpay_key"`
}

type verifyNew struct {
	OrderID        int    `json:"order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	GatewayOrderID string `json:"razorpay_order_id"`
	Signature      string `json:"razorpay_signature"`
}

type verified struct {
	Message string `json:"message"`
}

type Flow struct {
	cl    *client.Client
	gw    Gateway
	rec   *enroll.Reconciler
	store *session.Store
	log   logrus.FieldLogger

	busy   atomic.Bool
	loaded bool

	mu    sync.Mutex
	state State
}

func NewFlow(cl *client.Client, gw Gateway, rec *enroll.Reconciler, store *session.Store, log logrus.FieldLogger) *Flow {
	return &Flow{
		cl:    cl,
		gw:    gw,
		rec:   rec,
		store: store,
		log:   log,
		state: StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) transition(s State) {
	f.mu.Lock()
	from := f.state
	f.state = s
	f.mu.Unlock()

	f.log.WithFields(logrus.Fields{
		"from": from.String(),
		"to":   s.String(),
	}).Debug("checkout transition")
}

// Checkout runs the flow for one course to a terminal state. For paid
// courses an order is always created before the gateway opens and the client
// never calls enroll directly; enrollment is implied server-side by a
// verified payment. onSuccess fires once the course is owned, and the caller
// uses it to navigate to the content.
func (f *Flow) Checkout(ctx context.Context, c course.Course, onSuccess func(courseID int)) error {
	if !f.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer f.busy.Store(false)

	f.transition(StateIdle)

	if c.Free() {
		if err := f.rec.EnrollFree(ctx, c.ID); err != nil {
			return err
		}
		f.transition(StateEnrolled)
		if onSuccess != nil {
			onSuccess(c.ID)
		}
		return nil
	}

	var ord orderCreated
	if err := f.cl.Post(ctx, client.Orders, "orders/create/", orderNew{CourseID: c.ID}, &ord); err != nil {
		f.transition(StateFailed)
		return fmt.Errorf("creating order for course[%d]: %w", c.ID, err)
	}
	f.transition(StateOrderCreated)

	if !f.loaded {
		if err := f.gw.Load(ctx); err != nil {
			// Any dangling backend order is the backend's bookkeeping,
			// not ours.
			f.transition(StateFailed)
			return apierr.New(
				fmt.Errorf("loading checkout gateway: %w", err),
				apierr.KindNetwork,
				"failed to load payment gateway, please try again",
			)
		}
		f.loaded = true
	}

	co := Checkout{
		Key:            ord.Key,
		GatewayOrderID: ord.GatewayOrderID,
		Amount:         ord.Amount.Minor(),
		Currency:       ord.Currency,
		CourseTitle:    c.Title,
	}
	if sess, err := f.store.Load(); err == nil {
		co.PrefillName = sess.User.FullName
		co.PrefillEmail = sess.User.Email
	}

	f.transition(StateGatewayOpen)

	var outcome error
	done := func(comp Completion) {
		outcome = f.settle(ctx, c, ord, comp, onSuccess)
	}
	dismiss := func() {
		f.transition(StateCancelled)
		outcome = ErrCancelled
	}

	if err := f.gw.Open(ctx, co, done, dismiss); err != nil {
		f.transition(StateFailed)
		return fmt.Errorf("opening checkout gateway: %w", err)
	}
	return outcome
}

// settle turns a gateway completion into a verified payment and then an
// enrollment. Verification failures after this point are ambiguous (money
// may have moved), so they surface as payment-kind errors pointing the user
// at support.
func (f *Flow) settle(ctx context.Context, c course.Course, ord orderCreated, comp Completion, onSuccess func(int)) error {
	req := verifyNew{
		OrderID:        ord.OrderID,
		PaymentID:      comp.PaymentID,
		GatewayOrderID: comp.GatewayOrderID,
		Signature:      comp.Signature,
	}

	var res verified
	if err := f.cl.Post(ctx, client.Orders, "orders/verify/", req, &res); err != nil {
		f.transition(StateFailed)
		return apierr.Payment(fmt.Errorf("verifying payment for order[%d]: %w", ord.OrderID, err), "")
	}

	if res.Message != verifiedMessage {
		f.transition(StateFailed)
		err := fmt.Errorf("order[%d]: verify returned %q instead of the success sentinel", ord.OrderID, res.Message)
		return apierr.Payment(err, "")
	}
	f.transition(StateVerified)

	f.rec.Finalize(ctx, c.ID)
	f.transition(StateEnrolled)

	if onSuccess != nil {
		onSuccess(c.ID)
	}
	return nil
}
