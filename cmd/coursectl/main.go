package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/broadcast"
	"github.com/SanjuMs7/online-course-marketplace/client"
	"github.com/SanjuMs7/online-course-marketplace/config"
	"github.com/SanjuMs7/online-course-marketplace/core/account"
	"github.com/SanjuMs7/online-course-marketplace/core/cart"
	"github.com/SanjuMs7/online-course-marketplace/core/checkout"
	"github.com/SanjuMs7/online-course-marketplace/core/course"
	"github.com/SanjuMs7/online-course-marketplace/core/enroll"
	"github.com/SanjuMs7/online-course-marketplace/core/lesson"
	"github.com/SanjuMs7/online-course-marketplace/core/order"
	"github.com/SanjuMs7/online-course-marketplace/core/review"
	"github.com/SanjuMs7/online-course-marketplace/gateway/razorpay"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/ardanlabs/conf/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := Run(log); err != nil {
		if errors.Is(err, checkout.ErrCancelled) {
			fmt.Println("Payment cancelled. Nothing was charged.")
			return
		}
		if needsLogin(err) {
			fmt.Println("You are not logged in. Run: coursectl login <email> <password>")
			os.Exit(1)
		}
		if msg, ok := apierr.Message(err); ok {
			fmt.Fprintln(os.Stderr, msg)
		}
		log.Error(err)
		os.Exit(1)
	}
}

type app struct {
	cfg   config.Config
	log   *logrus.Logger
	store *session.Store
	cl    *client.Client
	cart  *cart.ViewModel
	rec   *enroll.Reconciler
}

func Run(log *logrus.Logger) error {
	var cfg struct {
		config.Config
		Args conf.Args
	}

	const prefix = "COURSECTL"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)

	path := cfg.Session.Path
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			return err
		}
	}
	store := session.NewStore(path)

	cl := client.New(client.Config{
		AccountsURL:       cfg.API.AccountsURL,
		CoursesURL:        cfg.API.CoursesURL,
		OrdersURL:         cfg.API.OrdersURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Log:               log,
		Session:           store,
	})

	hub := broadcast.New()
	vm := cart.NewViewModel(cl, store, hub, log)
	rec := enroll.NewReconciler(cl, vm, log)

	a := &app{cfg: cfg.Config, log: log, store: store, cl: cl, cart: vm, rec: rec}
	return a.dispatch(context.Background(), cfg.Args)
}

func (a *app) dispatch(ctx context.Context, args conf.Args) error {
	switch args.Num(0) {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		if err := account.Logout(a.store); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "courses":
		return a.courses(ctx)
	case "course":
		return a.course(ctx, args)
	case "cart":
		return a.cartCmd(ctx, args)
	case "checkout", "enroll":
		return a.checkout(ctx, args)
	case "lessons":
		return a.lessons(ctx, args)
	case "lesson":
		return a.lessonCmd(ctx, args)
	case "complete":
		return a.complete(ctx, args)
	case "progress":
		return a.progress(ctx, args)
	case "review":
		return a.review(ctx, args)
	case "review-delete":
		return a.reviewDelete(ctx, args)
	case "orders":
		return a.orders(ctx)
	case "earnings":
		return a.earnings(ctx)
	case "approve":
		return a.moderate(ctx, args, course.Approve, "approved")
	case "reject":
		return a.moderate(ctx, args, course.Reject, "rejected")
	case "":
		fmt.Println(usage)
		return nil
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", args.Num(0))
	}
}

func (a *app) login(ctx context.Context, args conf.Args) error {
	sess, err := account.Login(ctx, a.cl, a.store, args.Num(1), args.Num(2))
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.User.FullName, sess.User.Role)
	return nil
}

func (a *app) register(ctx context.Context, args conf.Args) error {
	role := strings.ToUpper(args.Num(4))
	if err := account.Register(ctx, a.cl, args.Num(1), args.Num(2), args.Num(3), role); err != nil {
		return err
	}
	fmt.Println("Account created. You can now log in.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	sess, err := a.store.Load()
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s id=%d\n", sess.User.FullName, sess.User.Email, sess.User.Role, sess.User.ID)
	return nil
}

func (a *app) courses(ctx context.Context) error {
	all, err := course.List(ctx, a.cl)
	if err != nil {
		return err
	}

	sortMode, err := parseSort(a.cfg.Filter.Sort)
	if err != nil {
		return err
	}
	filtered := course.Apply(all, course.Filter{
		Search:   a.cfg.Filter.Search,
		Category: a.cfg.Filter.Category,
		Sort:     sortMode,
	})

	for _, c := range filtered {
		price := "Free"
		if !c.Free() {
			price = fmt.Sprintf("%.2f", float64(c.Price))
		}
		fmt.Printf("%4d  %-40s  %-12s  %8s  by %s\n", c.ID, clip(c.Title, 40), c.Category, price, c.Instructor)
	}
	fmt.Printf("%d course(s)\n", len(filtered))
	return nil
}

func (a *app) course(ctx context.Context, args conf.Args) error {
	id, err := argID(args, 1)
	if err != nil {
		return err
	}

	c, err := course.Fetch(ctx, a.cl, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\nCategory: %s  Price: %.2f  Enrolled: %v\n", c.Title, c.Description, c.Category, float64(c.Price), c.IsEnrolled)
	return nil
}

func (a *app) cartCmd(ctx context.Context, args conf.Args) error {
	switch args.Num(1) {
	case "", "show":
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		for _, it := range a.cart.Items() {
			fmt.Printf("%4d  %-40s  %8.2f\n", it.CourseID, clip(it.Course.Title, 40), float64(it.Course.Price))
		}
		fmt.Printf("Total: %.2f\n", float64(a.cart.Total()))
		return nil

	case "add":
		id, err := argID(args, 2)
		if err != nil {
			return err
		}
		c, err := course.Fetch(ctx, a.cl, id)
		if err != nil {
			return err
		}
		if err := a.cart.Add(ctx, c); err != nil {
			return err
		}
		fmt.Printf("Added %q to cart.\n", c.Title)
		return nil

	case "remove":
		id, err := argID(args, 2)
		if err != nil {
			return err
		}
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
		if err := a.cart.Remove(ctx, id); err != nil {
			return err
		}
		fmt.Println("Removed from cart.")
		return nil

	default:
		return fmt.Errorf("unknown cart subcommand %q", args.Num(1))
	}
}

func (a *app) checkout(ctx context.Context, args conf.Args) error {
	id, err := argID(args, 1)
	if err != nil {
		return err
	}

	c, err := course.Fetch(ctx, a.cl, id)
	if err != nil {
		return err
	}

	// Best effort: a loaded cart lets the flow clear the entry afterwards.
	if err := a.cart.Load(ctx); err != nil && !errors.Is(err, session.ErrNoSession) {
		a.log.WithField("message", err).Warn("could not load cart before checkout")
	}

	gw := razorpay.NewHosted(a.log)
	flow := checkout.NewFlow(a.cl, gw, a.rec, a.store, a.log)

	return flow.Checkout(ctx, c, func(courseID int) {
		fmt.Printf("You are enrolled. Open the course: coursectl lessons %d\n", courseID)
	})
}

func (a *app) lessons(ctx context.Context, args conf.Args) error {
	id, err := argID(args, 1)
	if err != nil {
		return err
	}

	ls, err := lesson.ListByCourse(ctx, a.cl, id)
	if err != nil {
		return err
	}
	for _, l := range ls {
		fmt.Printf("%3d. [%d] %s  %s\n", l.Order, l.ID, l.Title, l.VideoURL)
	}
	return nil
}

func (a *app) lessonCmd(ctx context.Context, args conf.Args) error {
	switch args.Num(1) {
	case "add":
		courseID, err := argID(args, 2)
		if err != nil {
			return err
		}
		ord, err := strconv.Atoi(args.Num(3))
		if err != nil {
			return fmt.Errorf("expected a lesson order number, got %q", args.Num(3))
		}

		ln := lesson.LessonNew{
			Course:      courseID,
			Order:       ord,
			Title:       args.Num(4),
			Description: args.Num(5),
		}

		var video io.Reader
		var videoName string
		if path := args.Num(6); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening video file: %w", err)
			}
			defer f.Close()
			video = f
			videoName = filepath.Base(path)
		}

		created, err := lesson.Create(ctx, a.cl, ln, video, videoName)
		if err != nil {
			return err
		}
		fmt.Printf("Lesson %d added to course %d.\n", created.ID, courseID)
		return nil

	case "update":
		id, err := argID(args, 2)
		if err != nil {
			return err
		}

		var up lesson.LessonUp
		value := args.Num(4)
		switch args.Num(3) {
		case "title":
			up.Title = &value
		case "description":
			up.Description = &value
		case "video-url":
			up.VideoURL = &value
		case "order":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("expected a lesson order number, got %q", value)
			}
			up.Order = &n
		default:
			return fmt.Errorf("unknown lesson field %q (title, description, video-url, order)", args.Num(3))
		}

		if _, err := lesson.Update(ctx, a.cl, id, up); err != nil {
			return err
		}
		fmt.Println("Lesson updated.")
		return nil

	case "delete":
		id, err := argID(args, 2)
		if err != nil {
			return err
		}
		if err := lesson.Delete(ctx, a.cl, id); err != nil {
			return err
		}
		fmt.Println("Lesson deleted.")
		return nil

	default:
		return fmt.Errorf("unknown lesson subcommand %q", args.Num(1))
	}
}

func (a *app) complete(ctx context.Context, args conf.Args) error {
	id, err := argID(args, 1)
	if err != nil {
		return err
	}
	if err := lesson.Complete(ctx, a.cl, id, true); err != nil {
		return err
	}
	fmt.Println("Lesson marked as completed.")
	return nil
}

func (a *app) progress(ctx context.Context, args conf.Args) error {
	courseID, err := argID(args, 1)
	if err != nil {
		return err
	}

	ps, err := lesson.CourseProgress(ctx, a.cl, courseID)
	if err != nil {
		return err
	}

	done := 0
	for _, p := range ps {
		mark := " "
		if p.IsCompleted {
			mark = "x"
			done++
		}
		fmt.Printf("[%s] lesson %d\n", mark, p.Lesson)
	}
	fmt.Printf("%d of %d lesson(s) completed\n", done, len(ps))
	return nil
}

func (a *app) review(ctx context.Context, args conf.Args) error {
	courseID, err := argID(args, 1)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(args.Num(2))
	if err != nil {
		return fmt.Errorf("rating must be a number from 1 to 5")
	}
	comment := args.Num(3)

	sess, err := a.store.Load()
	if err != nil {
		return err
	}

	form, err := review.Load(ctx, a.cl, courseID, sess.User.ID)
	if err != nil {
		return err
	}

	_, existed := form.Existing()
	if _, err := form.Submit(ctx, rating, comment); err != nil {
		return err
	}
	if existed {
		fmt.Println("Review updated.")
	} else {
		fmt.Println("Review submitted.")
	}
	return nil
}

func (a *app) reviewDelete(ctx context.Context, args conf.Args) error {
	courseID, err := argID(args, 1)
	if err != nil {
		return err
	}

	sess, err := a.store.Load()
	if err != nil {
		return err
	}

	form, err := review.Load(ctx, a.cl, courseID, sess.User.ID)
	if err != nil {
		return err
	}
	if _, ok := form.Existing(); !ok {
		fmt.Println("You have no review on this course.")
		return nil
	}

	if err := form.Delete(ctx, a.cfg.Yes); err != nil {
		if errors.Is(err, review.ErrNotConfirmed) {
			return fmt.Errorf("pass --yes to confirm deleting your review")
		}
		return err
	}
	fmt.Println("Review deleted.")
	return nil
}

func (a *app) orders(ctx context.Context) error {
	orders, err := order.ListMine(ctx, a.cl)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%4d  %-40s  %8.2f  %s\n", o.ID, clip(o.Course.Title, 40), float64(o.Amount), o.Status)
	}
	return nil
}

func (a *app) earnings(ctx context.Context) error {
	paid, err := order.ListEarnings(ctx, a.cl)
	if err != nil {
		return err
	}
	courses, err := course.List(ctx, a.cl)
	if err != nil {
		return err
	}

	s := order.Summarize(courses, paid)
	fmt.Printf("Revenue: %.2f across %d order(s)\n", float64(s.TotalRevenue), len(paid))
	fmt.Printf("Total enrollments: %d\n", s.TotalEnrollments)
	if s.HasCompletion {
		fmt.Printf("Average completion: %d%%\n", s.AverageCompletion)
	}
	for _, t := range s.TopCourses {
		fmt.Printf("  %-40s  %d enrolled\n", clip(t.Title, 40), t.Enrollments)
	}
	return nil
}

func (a *app) moderate(ctx context.Context, args conf.Args, op func(context.Context, *client.Client, int) error, verb string) error {
	id, err := argID(args, 1)
	if err != nil {
		return err
	}
	if err := op(ctx, a.cl, id); err != nil {
		return err
	}
	fmt.Printf("Course %d %s.\n", id, verb)
	return nil
}

// needsLogin reports whether the failure should send the user to the login
// command: either no session exists at all, or the backend rejected the
// token we hold.
func needsLogin(err error) bool {
	return errors.Is(err, session.ErrNoSession) || apierr.IsKind(err, apierr.KindAuth)
}

func parseSort(s string) (course.Sort, error) {
	switch s {
	case "newest", "":
		return course.SortNewest, nil
	case "top-rated":
		return course.SortTopRated, nil
	case "title":
		return course.SortTitle, nil
	case "price-asc":
		return course.SortPriceAsc, nil
	case "price-desc":
		return course.SortPriceDesc, nil
	}
	return 0, fmt.Errorf("unknown sort mode %q", s)
}

func argID(args conf.Args, n int) (int, error) {
	id, err := strconv.Atoi(args.Num(n))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("expected a course or item id, got %q", args.Num(n))
	}
	return id, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const usage = `coursectl - online course marketplace client

Usage:
  coursectl login <email> <password>
  coursectl register <full name> <email> <password> <student|instructor>
  coursectl logout | whoami
  coursectl courses [--filter-search s] [--filter-category c] [--filter-sort m]
  coursectl course <id>
  coursectl cart [show|add <id>|remove <id>]
  coursectl checkout <id>        pay for (or directly enroll in) a course
  coursectl lessons <id>         list lessons of an enrolled course
  coursectl lesson add <courseID> <order> <title> [description] [videoFile]
  coursectl lesson update <lessonID> <title|description|video-url|order> <value>
  coursectl lesson delete <lessonID>
  coursectl complete <lessonID>
  coursectl progress <courseID>
  coursectl review <courseID> <rating 1-5> [comment]
  coursectl review-delete <courseID> --yes
  coursectl orders | earnings
  coursectl approve <id> | reject <id>

Sort modes: newest, top-rated, title, price-asc, price-desc.
Category "enrolled" limits the list to courses you are enrolled in.`
