// Package client is the single transport layer for the marketplace backend.
// It owns base URLs for the three API surfaces, attaches the session token,
// throttles outbound calls and converts every failure into a normalized
// apierr value so no component ever inspects a raw response body.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SanjuMs7/online-course-marketplace/apierr"
	"github.com/SanjuMs7/online-course-marketplace/session"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Surface selects which backend base URL a call targets. The backend exposes
// accounts, courses and orders as independent prefixes.
type Surface int

const (
	Accounts Surface = iota
	Courses
	Orders
)

type Config struct {
	AccountsURL string
	CoursesURL  string
	OrdersURL   string

	// Timeout bounds every request. Zero means 30 seconds.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables the
	// limiter.
	RequestsPerSecond float64

	Log     logrus.FieldLogger
	Session *session.Store
}

type Client struct {
	rest  *resty.Client
	bases map[Surface]string
	store *session.Store
	lim   *rate.Limiter
	log   logrus.FieldLogger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	var lim *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Client{
		rest: resty.New().SetTimeout(timeout),
		bases: map[Surface]string{
			Accounts: cfg.AccountsURL,
			Courses:  cfg.CoursesURL,
			Orders:   cfg.OrdersURL,
		},
		store: cfg.Session,
		lim:   lim,
		log:   log,
	}
}

func (c *Client) url(s Surface, path string) string {
	base := strings.TrimSuffix(c.bases[s], "/")
	return base + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) Get(ctx context.Context, s Surface, path string, out any) error {
	return c.do(ctx, http.MethodGet, s, path, nil, out, false)
}

func (c *Client) Post(ctx context.Context, s Surface, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, s, path, body, out, false)
}

// PostPublic skips the Authorization header; login and register are the only
// unauthenticated calls.
func (c *Client) PostPublic(ctx context.Context, s Surface, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, s, path, body, out, true)
}

func (c *Client) Put(ctx context.Context, s Surface, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, s, path, body, out, false)
}

func (c *Client) Patch(ctx context.Context, s Surface, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, s, path, body, out, false)
}

func (c *Client) Delete(ctx context.Context, s Surface, path string, out any) error {
	return c.do(ctx, http.MethodDelete, s, path, nil, out, false)
}

// Upload posts a multipart form, used for lesson creation when a video file
// is attached.
func (c *Client) Upload(ctx context.Context, s Surface, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	if c.lim != nil {
		if err := c.lim.Wait(ctx); err != nil {
			return apierr.Network(fmt.Errorf("waiting for request slot: %w", err))
		}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetFormData(fields).
		SetFileReader(fileField, fileName, file)
	c.authorize(req)

	return c.run(req, http.MethodPost, c.url(s, path), out)
}

func (c *Client) do(ctx context.Context, method string, s Surface, path string, body, out any, public bool) error {
	if c.lim != nil {
		if err := c.lim.Wait(ctx); err != nil {
			return apierr.Network(fmt.Errorf("waiting for request slot: %w", err))
		}
	}

	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(body)
	}
	if !public {
		c.authorize(req)
	}

	return c.run(req, method, c.url(s, path), out)
}

func (c *Client) authorize(req *resty.Request) {
	if tok := c.store.Token(); tok != "" {
		req.SetHeader("Authorization", "Token "+tok)
	}
}

func (c *Client) run(req *resty.Request, method, url string, out any) error {
	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	})
	log.Debug("request started")
	start := time.Now().UTC()

	resp, err := req.Execute(method, url)
	if err != nil {
		log.WithField("since", time.Since(start).Nanoseconds()).Debug("request failed")
		return apierr.Network(fmt.Errorf("%s %s: %w", method, url, err))
	}

	log.WithFields(logrus.Fields{
		"statuscode": resp.StatusCode(),
		"since":      time.Since(start).Nanoseconds(),
	}).Debug("request completed")

	return interpret(resp, method, url, out)
}
