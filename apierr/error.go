package apierr

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (r *RequestError) Unwrap() error { return r.Err }

func New(err error, kind Kind, msg string, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithKind(kind), WithMessage(msg))
	return Wrap(e, opts...)
}

func Auth(err error, msg string, opts ...Opt) error {
	if msg == "" {
		msg = "please log in to continue"
	}
	return New(err, KindAuth, msg, opts...)
}

func Validation(err error, msg string, opts ...Opt) error {
	if msg == "" {
		msg = "the request was rejected"
	}
	return New(err, KindValidation, msg, opts...)
}

func NotFound(err error, msg string, opts ...Opt) error {
	if msg == "" {
		msg = "the resource could not be found"
	}
	return New(err, KindNotFound, msg, opts...)
}

func Payment(err error, msg string, opts ...Opt) error {
	if msg == "" {
		msg = "payment could not be confirmed, please contact support"
	}
	return New(err, KindPayment, msg, opts...)
}

func Server(err error, msg string, opts ...Opt) error {
	if msg == "" {
		msg = "the server encountered a problem, please try again"
	}
	return New(err, KindServer, msg, opts...)
}

func Network(err error, opts ...Opt) error {
	return New(err, KindNetwork, "could not reach the server, please try again", opts...)
}
