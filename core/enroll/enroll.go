// Package enroll converts a purchase (or a free course) into an enrollment
// and owns the cleanup that keeps cart membership and enrollment mutually
// exclusive. All call sites go through the Reconciler so the cart-cleanup
// invariant lives in one place.
package enroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/core/cart"
	"github.com/sirupsen/logrus"
)

type enrollmentNew struct {
	Course int `json:"course"`
}

type Reconciler struct {
	cl   *client.Client
	cart *cart.ViewModel
	log  logrus.FieldLogger
}

func NewReconciler(cl *client.Client, vm *cart.ViewModel, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{cl: cl, cart: vm, log: log}
}

// Enroll records the (student, course) membership. Enrollment is a
// set-membership operation from the client's point of view: a conflict
// saying the student is already enrolled counts as success.
func (r *Reconciler) Enroll(ctx context.Context, courseID int) error {
	err := r.cl.Post(ctx, client.Courses, "enrollments/", enrollmentNew{Course: courseID}, nil)
	if err == nil {
		return nil
	}

	if apierr.IsKind(err, apierr.KindValidation) {
		if msg, ok := apierr.Message(err); ok && strings.Contains(strings.ToLower(msg), "already enrolled") {
			r.log.WithField("course_id", courseID).Info("already enrolled, treating as success")
			return nil
		}
	}

	return fmt.Errorf("enrolling in course[%d]: %w", courseID, err)
}

// Finalize removes the course from the cart once enrollment is effective.
// The removal is best effort: enrollment already succeeded, so a failed
// cleanup is logged rather than surfaced.
func (r *Reconciler) Finalize(ctx context.Context, courseID int) {
	if !r.cart.Contains(courseID) {
		return
	}
	if err := r.cart.Remove(ctx, courseID); err != nil {
		r.log.WithFields(logrus.Fields{
			"course_id": courseID,
			"message":   err,
		}).Warn("enrolled but cart cleanup failed")
	}
}

// EnrollFree is the direct path for zero-price courses: enroll, then clear
// the cart entry.
func (r *Reconciler) EnrollFree(ctx context.Context, courseID int) error {
	if err := r.Enroll(ctx, courseID); err != nil {
		return err
	}
	r.Finalize(ctx, courseID)
	return nil
}
