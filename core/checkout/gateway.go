package checkout

import "context"

// Checkout carries everything the gateway widget needs to collect a payment.
// Amount is in the currency's minor unit.
type Checkout struct {
	Key            string
	GatewayOrderID string
	Amount         int64
	Currency       string
	CourseTitle    string
	PrefillName    string
	PrefillEmail   string
}

// Completion is the ephemeral result of a finished gateway checkout. It is
// consumed exactly once, by the verify call.
type Completion struct {
	PaymentID      string
	GatewayOrderID string
	Signature      string
}

// Gateway abstracts the third-party checkout widget.
//
// Load prepares the widget (the script-load step); the flow calls it at most
// once per process. Open presents the checkout and blocks until exactly one
// of done or dismiss has been invoked, or the context is cancelled. A
// dismiss before completion means the user walked away.
type Gateway interface {
	Load(ctx context.Context) error
	Open(ctx context.Context, co Checkout, done func(Completion), dismiss func()) error
}
