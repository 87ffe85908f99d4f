// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// AppName identifies the sender to the notification service.
const AppName = "ShineyLabel"

// Options configures how a notification is displayed.
type Options struct {
	// IconPath, when non-empty, is an image shown alongside the message where
	// the platform supports it.
	IconPath string
	// TimeoutMs is how long the notification stays up. Zero uses 5000.
	TimeoutMs int32
}

func (o Options) timeout() int32 {
	if o.TimeoutMs <= 0 {
		return 5000
	}
	return o.TimeoutMs
}
