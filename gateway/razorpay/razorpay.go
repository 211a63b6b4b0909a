// Package razorpay drives the hosted Razorpay checkout for a terminal
// client: it serves a local page embedding the checkout widget, opens it in
// the user's browser and receives the completion or dismiss callback on a
// loopback HTTP server. It implements checkout.Gateway.
package razorpay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/SanjuMs7/online-course-marketplace/core/checkout"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

const scriptURL = "https://checkout.razorpay.com/v1/checkout.js"

type Hosted struct {
	log    logrus.FieldLogger
	browse func(url string) error
	client *http.Client

	mu     sync.Mutex
	loaded bool
}

func NewHosted(log logrus.FieldLogger) *Hosted {
	return &Hosted{
		log:    log,
		browse: openBrowser,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Load checks that the checkout script is reachable, the loopback analog of
// the browser's lazy script load. Repeat calls are no-ops.
func (h *Hosted) Load(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.loaded {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, scriptURL, nil)
	if err != nil {
		return fmt.Errorf("building script request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching checkout script: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("checkout script unavailable: status %d", resp.StatusCode)
	}

	h.loaded = true
	return nil
}

// Open serves the checkout page on a loopback address, opens it in the
// user's browser and blocks until the gateway reports completion, the user
// dismisses the widget, or the context is cancelled (also a dismissal).
// Exactly one of done or dismiss is invoked.
func (h *Hosted) Open(ctx context.Context, co checkout.Checkout, done func(checkout.Completion), dismiss func()) error {
	nonce := uuid.NewString()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("starting callback listener: %w", err)
	}

	completed := make(chan *checkout.Completion, 1)

	r := mux.NewRouter()
	r.Handle("/pay", h.payPage(co, nonce)).Methods(http.MethodGet)
	r.Handle("/callback", h.callback(nonce, completed)).Methods(http.MethodPost)
	r.Handle("/cancel", h.cancel(nonce, completed)).Methods(http.MethodGet)

	srv := &http.Server{Handler: h.logged(r)}
	go srv.Serve(ln)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(sctx)
	}()

	url := fmt.Sprintf("http://%s/pay?state=%s", ln.Addr().String(), nonce)
	h.log.WithField("url", url).Info("opening checkout")
	if err := h.browse(url); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}

	select {
	case comp := <-completed:
		if comp == nil {
			dismiss()
			return nil
		}
		done(*comp)
		return nil
	case <-ctx.Done():
		dismiss()
		return nil
	}
}

func (h *Hosted) payPage(co checkout.Checkout, nonce string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != nonce {
			http.Error(w, "unknown checkout", http.StatusForbidden)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := payTemplate.Execute(w, payData{Checkout: co, Nonce: nonce, ScriptURL: scriptURL}); err != nil {
			h.log.WithField("message", err).Error("rendering checkout page")
		}
	})
}

func (h *Hosted) callback(nonce string, completed chan<- *checkout.Completion) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad callback", http.StatusBadRequest)
			return
		}
		if r.PostFormValue("state") != nonce {
			http.Error(w, "unknown checkout", http.StatusForbidden)
			return
		}

		comp := checkout.Completion{
			PaymentID:      r.PostFormValue("razorpay_payment_id"),
			GatewayOrderID: r.PostFormValue("razorpay_order_id"),
			Signature:      r.PostFormValue("razorpay_signature"),
		}
		if comp.PaymentID == "" || comp.GatewayOrderID == "" || comp.Signature == "" {
			http.Error(w, "incomplete payment details", http.StatusBadRequest)
			return
		}

		select {
		case completed <- &comp:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<p>Payment received. You can close this tab and return to the terminal.</p>")
	})
}

func (h *Hosted) cancel(nonce string, completed chan<- *checkout.Completion) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != nonce {
			http.Error(w, "unknown checkout", http.StatusForbidden)
			return
		}

		select {
		case completed <- nil:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<p>Payment cancelled. You can close this tab.</p>")
	})
}

func (h *Hosted) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		lw := mutil.WrapWriter(w)

		next.ServeHTTP(lw, r)

		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"statuscode": lw.Status(),
			"since":      time.Since(start).Nanoseconds(),
		}).Debug("callback request")
	})
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	}
	return errors.New("cannot open a browser on this platform")
}
