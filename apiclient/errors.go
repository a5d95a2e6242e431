package apiclient

// Kind classifies a normalized request failure.
type Kind int

const (
	// KindServer is a non-2xx response from the backend.
	KindServer Kind = iota

	// KindTransport is a transport-level failure with no response.
	KindTransport

	// KindAuthRejected is a credential rejection: a 401/403 from a domain
	// endpoint, or any 4xx from the auth endpoint itself.
	KindAuthRejected
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindTransport:
		return "transport"
	case KindAuthRejected:
		return "auth_rejected"
	default:
		return "unknown"
	}
}

// fallbackMessage matches the app's fixed user-facing fallback when no
// better message is available.
const fallbackMessage = "Something went wrong. Please try again."

// Error is the single error shape leaving the pipeline. Message is always
// a non-empty human-readable string; callers never branch on transport vs
// server shape, only on Kind when they care.
type Error struct {
	Kind      Kind
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	return e.Message
}
