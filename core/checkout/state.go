package checkout

// State is the explicit position of a checkout in its lifecycle. Transitions
// are driven only by Flow.Checkout:
//
//	Idle -> OrderCreated -> GatewayOpen -> Verified -> Enrolled
//	                        GatewayOpen -> Cancelled
//	              (any)  -> Failed
//	       Idle -> Enrolled               (free courses)
type State int

const (
	StateIdle State = iota
	StateOrderCreated
	StateGatewayOpen
	StateVerified
	StateCancelled
	StateFailed
	StateEnrolled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateOrderCreated:
		return "ORDER_CREATED"
	case StateGatewayOpen:
		return "GATEWAY_OPEN"
	case StateVerified:
		return "VERIFIED"
	case StateCancelled:
		return "CANCELLED"
	case StateFailed:
		return "FAILED"
	case StateEnrolled:
		return "ENROLLED"
	}
	return "UNKNOWN"
}
