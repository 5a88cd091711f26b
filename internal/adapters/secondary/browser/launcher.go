package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

// Launcher opens the served landing page in a local browser.
type Launcher struct {
	openers []opener
}

// opener is one platform-specific way to open a URL.
type opener struct {
	name    string
	command string
	args    func(url string) []string
}

// NewLauncher creates a launcher with the platform's opener candidates.
func NewLauncher() *Launcher {
	return &Launcher{openers: platformOpeners()}
}

// Launch opens a URL in the default browser unless noOpen is set.
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	opener, err := l.selectOpener()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	cmd := exec.Command(opener.command, opener.args(url)...) // #nosec G204 - command comes from the fixed platform list
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	// Don't block on the browser process.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// selectOpener returns the first candidate whose executable is in PATH.
func (l *Launcher) selectOpener() (*opener, error) {
	for _, candidate := range l.openers {
		if _, err := exec.LookPath(candidate.command); err == nil {
			return &candidate, nil
		}
	}
	return nil, errors.New("no supported browsers found on this system")
}

// platformOpeners lists opener candidates for the current OS.
func platformOpeners() []opener {
	passthrough := func(url string) []string { return []string{url} }

	switch runtime.GOOS {
	case "darwin":
		return []opener{
			{name: "default", command: "open", args: passthrough},
		}
	case "linux":
		return []opener{
			{name: "xdg-open", command: "xdg-open", args: passthrough},
			{name: "chrome", command: "google-chrome", args: passthrough},
			{name: "firefox", command: "firefox", args: passthrough},
		}
	case "windows":
		return []opener{
			{name: "default", command: "cmd", args: func(url string) []string {
				return []string{"/c", "start", url}
			}},
		}
	default:
		return nil
	}
}

// Ensure Launcher implements BrowserLauncher
var _ ports.BrowserLauncher = (*Launcher)(nil)
