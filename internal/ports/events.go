package ports

import "context"

// NotificationSender signals the external delivery collaborator after a
// deferred resolution completes. Delivery mechanics (HTTP call, socket push)
// live behind this port.
type NotificationSender interface {
	Notify(ctx context.Context, channelType, endpoint string) error
}
