package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/gorilla/mux"
)

// calls counts requests by method so tests can assert which verbs were used.
type calls struct {
	gets, posts, patches, deletes int
}

func testForm(t *testing.T, existing string) (*Form, *calls) {
	t.Helper()

	n := &calls{}
	r := mux.NewRouter()

	r.HandleFunc("/api/courses/9/reviews/", func(w http.ResponseWriter, req *http.Request) {
		n.gets++
		w.Write([]byte(existing))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/courses/9/reviews/", func(w http.ResponseWriter, req *http.Request) {
		n.posts++
		var sub map[string]any
		json.NewDecoder(req.Body).Decode(&sub)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 31, "course": 9, "student": 7,
			"rating": sub["rating"], "comment": sub["comment"],
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/api/reviews/30/", func(w http.ResponseWriter, req *http.Request) {
		n.patches++
		var sub map[string]any
		json.NewDecoder(req.Body).Decode(&sub)
		json.NewEncoder(w).Encode(map[string]any{
			"id": 30, "course": 9, "student": 7,
			"rating": sub["rating"], "comment": sub["comment"],
		})
	}).Methods(http.MethodPatch)

	r.HandleFunc("/api/reviews/30/", func(w http.ResponseWriter, req *http.Request) {
		n.deletes++
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Save(session.Session{Token: "tok", User: session.User{ID: 7, Role: session.RoleStudent}}); err != nil {
		t.Fatal(err)
	}

	cl := client.New(client.Config{
		AccountsURL: srv.URL + "/api/accounts/",
		CoursesURL:  srv.URL + "/api/",
		OrdersURL:   srv.URL + "/api/",
		Session:     store,
	})

	f, err := Load(context.Background(), cl, 9, 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return f, n
}

const othersOnly = `[{"id":20,"course":9,"student":3,"rating":4,"comment":"nice"}]`

const withOwn = `[
	{"id":20,"course":9,"student":3,"rating":4,"comment":"nice"},
	{"id":30,"course":9,"student":7,"rating":2,"comment":"meh"}
]`

func TestSubmitRejectsMissingRatingLocally(t *testing.T) {
	f, n := testForm(t, othersOnly)

	if _, err := f.Submit(context.Background(), 0, "great course"); err == nil {
		t.Fatal("expected a validation error")
	}
	if _, err := f.Submit(context.Background(), 6, ""); err == nil {
		t.Fatal("expected a validation error for an out-of-range rating")
	}
	if n.posts != 0 || n.patches != 0 {
		t.Fatal("invalid submissions must not reach the network")
	}
}

func TestSubmitCreatesWhenNoOwnReview(t *testing.T) {
	f, n := testForm(t, othersOnly)

	if _, ok := f.Existing(); ok {
		t.Fatal("another student's review must not count as ours")
	}

	rev, err := f.Submit(context.Background(), 5, "great course")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n.posts != 1 || n.patches != 0 {
		t.Fatalf("expected one create, got posts=%d patches=%d", n.posts, n.patches)
	}
	if rev.Rating != 5 || rev.ID != 31 {
		t.Fatalf("unexpected review: %+v", rev)
	}

	if got, ok := f.Existing(); !ok || got.ID != 31 {
		t.Fatal("form should now track the created review")
	}
}

func TestSubmitUpdatesExistingReview(t *testing.T) {
	f, n := testForm(t, withOwn)

	if got, ok := f.Existing(); !ok || got.ID != 30 {
		t.Fatal("expected the student's own review to be detected on load")
	}

	rev, err := f.Submit(context.Background(), 4, "better on a second pass")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n.posts != 0 || n.patches != 1 {
		t.Fatalf("expected one update, got posts=%d patches=%d", n.posts, n.patches)
	}
	if rev.ID != 30 || rev.Rating != 4 {
		t.Fatalf("unexpected review: %+v", rev)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f, n := testForm(t, withOwn)

	if err := f.Delete(context.Background(), false); err != ErrNotConfirmed {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if n.deletes != 0 {
		t.Fatal("unconfirmed delete must not reach the network")
	}

	if err := f.Delete(context.Background(), true); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n.deletes != 1 {
		t.Fatalf("expected one delete, got %d", n.deletes)
	}
	if _, ok := f.Existing(); ok {
		t.Fatal("form should revert to the no-review state")
	}

	// Deleting again with nothing tracked is a no-op.
	if err := f.Delete(context.Background(), true); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if n.deletes != 1 {
		t.Fatalf("expected no further deletes, got %d", n.deletes)
	}
}

func TestLoadPropagatesListError(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/courses/9/reviews/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Course not found"}`))
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	cl := client.New(client.Config{
		AccountsURL: srv.URL + "/api/accounts/",
		CoursesURL:  srv.URL + "/api/",
		OrdersURL:   srv.URL + "/api/",
		Session:     store,
	})

	if _, err := Load(context.Background(), cl, 9, 7); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}
