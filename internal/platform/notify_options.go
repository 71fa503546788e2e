// Package platform delivers desktop notifications through the host's
// notification service.
package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender. Empty means "Twibbon".
	AppName string
	// IconPath, when non-empty, points to an image shown beside the text
	// where the notification service supports it.
	IconPath string
	// Timeout in milliseconds; zero uses the service default.
	TimeoutMS int32
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "Twibbon"
	}
	return o.AppName
}
