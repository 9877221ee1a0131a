package platform

// Options carries the optional parts of a notification.
type Options struct {
	// IconPath points at an image file to show alongside the notification
	// on platforms that support one.
	IconPath string
}
