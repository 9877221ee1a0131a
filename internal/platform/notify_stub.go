//go:build !linux && !darwin && !windows

package platform

// Notify drops the notification on platforms without a supported
// notification center.
func Notify(title, body string, opts Options) error {
	return nil
}
