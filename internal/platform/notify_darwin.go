//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a desktop notification through macOS Notification Center.
// When an icon is requested it prefers terminal-notifier, which can show one;
// osascript cannot.
func Notify(title, body string, opts Options) error {
	if opts.IconPath != "" {
		if path, err := exec.LookPath("terminal-notifier"); err == nil {
			cmd := exec.Command(path, "-title", title, "-message", body, "-appIcon", opts.IconPath)
			return cmd.Run()
		}
	}
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
