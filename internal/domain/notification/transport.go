package notification

import "context"

// Transport delivers messages over one messaging channel.
// Implementations never return errors: internal failures are logged and
// reported as false. This keeps the work logger decoupled from the
// specific messaging API.
type Transport interface {
	Name() string
	Enabled() bool
	SendText(ctx context.Context, message string) bool
	SendMedia(ctx context.Context, path, caption string) bool
	// CheckConnection asks the channel's API whether it is reachable.
	CheckConnection(ctx context.Context) bool
}
