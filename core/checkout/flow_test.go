package checkout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/broadcast"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/core/cart"
	"github.com/SanjuMs7/online-course-marketplace/core/course"
	"github.com/SanjuMs7/online-course-marketplace/core/enroll"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type fakeGateway struct {
	loadErr error
	loads   int
	opened  []Checkout

	// result drives the outcome of Open: a completion means the payment
	// went through, nil means the user dismissed the widget.
	result *Completion

	reenter func() error
	reerr   error
}

func (g *fakeGateway) Load(ctx context.Context) error {
	g.loads++
	return g.loadErr
}

func (g *fakeGateway) Open(ctx context.Context, co Checkout, done func(Completion), dismiss func()) error {
	g.opened = append(g.opened, co)
	if g.reenter != nil {
		g.reerr = g.reenter()
	}
	if g.result == nil {
		dismiss()
		return nil
	}
	done(*g.result)
	return nil
}

// backend is the mock marketplace API: it records the call sequence so tests
// can assert ordering, not just counts.
type backend struct {
	events        []string
	verifyBody    verifyNew
	verifyMessage string
	inCart        bool
}

func (b *backend) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/orders/create/", func(w http.ResponseWriter, req *http.Request) {
		b.events = append(b.events, "create-order")
		w.Write([]byte(`{"order_id":5,"razorpay_order_id":"rzp_1","amount":"500.00","currency":"INR","razorpay_key":"key_x"}`))
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/orders/verify/", func(w http.ResponseWriter, req *http.Request) {
		b.events = append(b.events, "verify")
		json.NewDecoder(req.Body).Decode(&b.verifyBody)
		msg := b.verifyMessage
		if msg == "" {
			msg = "Payment verified successfully"
		}
		json.NewEncoder(w).Encode(map[string]string{"message": msg})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/enrollments/", func(w http.ResponseWriter, req *http.Request) {
		b.events = append(b.events, "enroll")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/orders/cart/", func(w http.ResponseWriter, req *http.Request) {
		if b.inCart {
			w.Write([]byte(`[{"id":1,"course":11,"course_details":{"id":11,"title":"Course A","price":"500.00"}}]`))
			return
		}
		w.Write([]byte(`[]`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/orders/cart/11/", func(w http.ResponseWriter, req *http.Request) {
		b.events = append(b.events, "cart-remove")
		w.Write([]byte(`{"message":"Removed from cart"}`))
	}).Methods(http.MethodDelete)

	return r
}

func testFlow(t *testing.T, b *backend, gw *fakeGateway) (*Flow, *cart.ViewModel, *broadcast.Hub) {
	t.Helper()

	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(session.Session{
		Token: "tok",
		User:  session.User{ID: 7, Role: session.RoleStudent, FullName: "Maya Iyer", Email: "maya@example.com"},
	}); err != nil {
		t.Fatal(err)
	}

	cl := client.New(client.Config{
		AccountsURL: srv.URL + "/api/accounts/",
		CoursesURL:  srv.URL + "/api/",
		OrdersURL:   srv.URL + "/api/",
		Session:     store,
	})

	hub := broadcast.New()
	vm := cart.NewViewModel(cl, store, hub, log)
	if err := vm.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec := enroll.NewReconciler(cl, vm, log)

	return NewFlow(cl, gw, rec, store, log), vm, hub
}

func paidCourse() course.Course {
	return course.Course{ID: 11, Title: "Course A", Price: 500}
}

func freeCourse() course.Course {
	return course.Course{ID: 12, Title: "Course B", Price: 0}
}

func TestFreeCourseSkipsGateway(t *testing.T) {
	b := &backend{}
	gw := &fakeGateway{}
	flow, _, _ := testFlow(t, b, gw)

	var succeeded []int
	err := flow.Checkout(context.Background(), freeCourse(), func(id int) {
		succeeded = append(succeeded, id)
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if diff := cmp.Diff([]string{"enroll"}, b.events); diff != "" {
		t.Fatalf("wrong call sequence (-want +got):\n%s", diff)
	}
	if gw.loads != 0 || len(gw.opened) != 0 {
		t.Fatal("free checkout must never touch the gateway")
	}
	if flow.State() != StateEnrolled {
		t.Fatalf("expected ENROLLED, got %s", flow.State())
	}
	if diff := cmp.Diff([]int{12}, succeeded); diff != "" {
		t.Fatalf("wrong success callback (-want +got):\n%s", diff)
	}
}

func TestPaidCourseHappyPath(t *testing.T) {
	b := &backend{inCart: true}
	gw := &fakeGateway{result: &Completion{PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}}
	flow, vm, hub := testFlow(t, b, gw)
	signals := hub.Subscribe()

	var succeeded []int
	err := flow.Checkout(context.Background(), paidCourse(), func(id int) {
		succeeded = append(succeeded, id)
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// The order is created before the gateway opens and the client never
	// enrolls directly for a paid course.
	want := []string{"create-order", "verify", "cart-remove"}
	if diff := cmp.Diff(want, b.events); diff != "" {
		t.Fatalf("wrong call sequence (-want +got):\n%s", diff)
	}

	if len(gw.opened) != 1 {
		t.Fatalf("expected one gateway open, got %d", len(gw.opened))
	}
	co := gw.opened[0]
	if co.Key != "key_x" || co.GatewayOrderID != "rzp_1" || co.Currency != "INR" {
		t.Fatalf("gateway opened with wrong order details: %+v", co)
	}
	if co.Amount != 50000 {
		t.Fatalf("expected amount in minor units 50000, got %d", co.Amount)
	}
	if co.PrefillEmail != "maya@example.com" {
		t.Fatalf("expected profile prefill, got %q", co.PrefillEmail)
	}

	wantVerify := verifyNew{OrderID: 5, PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}
	if diff := cmp.Diff(wantVerify, b.verifyBody); diff != "" {
		t.Fatalf("wrong verify payload (-want +got):\n%s", diff)
	}

	if flow.State() != StateEnrolled {
		t.Fatalf("expected ENROLLED, got %s", flow.State())
	}
	if vm.Contains(11) {
		t.Fatal("cart entry must be cleared after enrollment")
	}
	select {
	case <-signals:
	default:
		t.Fatal("expected one cart-changed signal")
	}
	if diff := cmp.Diff([]int{11}, succeeded); diff != "" {
		t.Fatalf("wrong success callback (-want +got):\n%s", diff)
	}
}

func TestDismissCancels(t *testing.T) {
	b := &backend{inCart: true}
	gw := &fakeGateway{result: nil}
	flow, vm, _ := testFlow(t, b, gw)

	err := flow.Checkout(context.Background(), paidCourse(), func(int) {
		t.Fatal("success callback must not fire on dismissal")
	})
	if err != ErrCancelled {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	if flow.State() != StateCancelled {
		t.Fatalf("expected CANCELLED, got %s", flow.State())
	}
	if diff := cmp.Diff([]string{"create-order"}, b.events); diff != "" {
		t.Fatalf("dismissal must not verify, enroll or touch the cart (-want +got):\n%s", diff)
	}
	if !vm.Contains(11) {
		t.Fatal("cart must be unchanged after a cancelled payment")
	}
}

func TestUnexpectedVerifyBodyFails(t *testing.T) {
	b := &backend{verifyMessage: "Payment received"}
	gw := &fakeGateway{result: &Completion{PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}}
	flow, _, _ := testFlow(t, b, gw)

	err := flow.Checkout(context.Background(), paidCourse(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apierr.IsKind(err, apierr.KindPayment) {
		t.Fatalf("expected payment kind, got %v", err)
	}
	if flow.State() != StateFailed {
		t.Fatalf("expected FAILED, got %s", flow.State())
	}
}

func TestVerifyServerFailure(t *testing.T) {
	gw := &fakeGateway{result: &Completion{PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}}

	err := flowWithFailingVerify(t, gw)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apierr.IsKind(err, apierr.KindPayment) {
		t.Fatalf("expected payment kind, got %v", err)
	}
	if msg, ok := apierr.Message(err); !ok || msg == "" {
		t.Fatal("expected a contact-support message")
	}
}

func flowWithFailingVerify(t *testing.T, gw *fakeGateway) error {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/orders/create/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"order_id":5,"razorpay_order_id":"rzp_1","amount":"500.00","currency":"INR","razorpay_key":"key_x"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/verify/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Payment verification failed"}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/cart/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`[]`))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(session.Session{Token: "tok"}); err != nil {
		t.Fatal(err)
	}

	cl := client.New(client.Config{
		AccountsURL: srv.URL + "/api/accounts/",
		CoursesURL:  srv.URL + "/api/",
		OrdersURL:   srv.URL + "/api/",
		Session:     store,
	})
	vm := cart.NewViewModel(cl, store, broadcast.New(), log)
	rec := enroll.NewReconciler(cl, vm, log)
	flow := NewFlow(cl, gw, rec, store, log)

	return flow.Checkout(context.Background(), paidCourse(), nil)
}

func TestGatewayLoadFailure(t *testing.T) {
	b := &backend{}
	gw := &fakeGateway{loadErr: context.DeadlineExceeded}
	flow, _, _ := testFlow(t, b, gw)

	err := flow.Checkout(context.Background(), paidCourse(), nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if msg, _ := apierr.Message(err); msg != "failed to load payment gateway, please try again" {
		t.Fatalf("expected a retry message, got %q", msg)
	}
	if flow.State() != StateFailed {
		t.Fatalf("expected FAILED, got %s", flow.State())
	}
	if len(gw.opened) != 0 {
		t.Fatal("gateway must not open after a failed load")
	}
}

func TestGatewayLoadsOnce(t *testing.T) {
	b := &backend{}
	gw := &fakeGateway{result: &Completion{PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}}
	flow, _, _ := testFlow(t, b, gw)

	for i := 0; i < 3; i++ {
		if err := flow.Checkout(context.Background(), paidCourse(), nil); err != nil {
			t.Fatalf("checkout %d: %v", i, err)
		}
	}
	if gw.loads != 1 {
		t.Fatalf("expected one script load, got %d", gw.loads)
	}
}

func TestConcurrentCheckoutRejected(t *testing.T) {
	b := &backend{}
	gw := &fakeGateway{result: &Completion{PaymentID: "pay_1", GatewayOrderID: "rzp_1", Signature: "sig_1"}}
	flow, _, _ := testFlow(t, b, gw)

	gw.reenter = func() error {
		return flow.Checkout(context.Background(), paidCourse(), nil)
	}

	if err := flow.Checkout(context.Background(), paidCourse(), nil); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if gw.reerr != ErrBusy {
		t.Fatalf("expected ErrBusy for the overlapping checkout, got %v", gw.reerr)
	}
}
