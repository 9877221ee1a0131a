//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	appName   = "Frameboard"
	expiryMs  = int32(5000)
	notifyObj = "org.freedesktop.Notifications"
)

// Notify sends a desktop notification over the session bus using the
// Freedesktop.org notification spec.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"desktop-entry": dbus.MakeVariant(appName),
	}
	obj := conn.Object(notifyObj, "/org/freedesktop/Notifications")
	call := obj.Call(notifyObj+".Notify", 0,
		appName, uint32(0), opts.IconPath, title, body, []string{}, hints, expiryMs)
	return call.Err
}
