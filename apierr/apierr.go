// Package apierr normalizes backend failures into error values carrying a
// kind tag, the HTTP status and a user-visible message. Components never
// inspect raw response bodies; the transport layer produces these values and
// callers branch on Kind.
package apierr

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

func WithKind(k Kind) Opt {
	return func(err error) error {
		return &kindError{error: err, kind: k}
	}
}

func WithMessage(msg string) Opt {
	return func(err error) error {
		return &messageError{error: err, msg: msg}
	}
}

func WithStatus(status int) Opt {
	return func(err error) error {
		return &statusError{error: err, status: status}
	}
}
