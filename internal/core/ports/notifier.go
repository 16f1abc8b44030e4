package ports

import "context"

// Severity classifies a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notifier is the side-channel through which storage-layer events reach the
// user (toasts in the browser UI). It is the only side effect the persistence
// gateway performs outside the storage engine itself. Implementations must
// not block the caller on delivery problems; a lost toast is acceptable, a
// stalled save is not.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, severity Severity, message string)

func (f NotifierFunc) Notify(ctx context.Context, severity Severity, message string) {
	f(ctx, severity, message)
}
