package apierr

import "errors"

// Kind classifies a backend failure. Every error produced by the transport
// layer carries exactly one kind.
type Kind int

const (
	// KindNetwork marks failures where no response was received at all.
	KindNetwork Kind = iota

	// KindAuth marks 401/403 responses. Callers redirect to login and
	// never retry.
	KindAuth

	// KindValidation marks 400 responses carrying a server message.
	KindValidation

	// KindNotFound marks 404 responses.
	KindNotFound

	// KindPayment marks the ambiguous post-payment failures where money
	// may have moved without confirmed enrollment.
	KindPayment

	// KindServer marks everything else (5xx and unexpected statuses).
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindPayment:
		return "payment"
	case KindServer:
		return "server"
	}
	return "unknown"
}

type kinder interface {
	ErrKind() Kind
}

// KindOf extracts the kind tag from an error chain. Errors that never went
// through the transport layer report KindServer with ok=false.
func KindOf(err error) (Kind, bool) {
	var ke kinder
	if errors.As(err, &ke) {
		return ke.ErrKind(), true
	}
	return KindServer, false
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

type kindError struct {
	error
	kind Kind
}

func (e *kindError) ErrKind() Kind { return e.kind }

func (e *kindError) Unwrap() error { return e.error }
