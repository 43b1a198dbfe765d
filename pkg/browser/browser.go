// Package browser opens watch links in the user's default browser.
package browser

import (
	"fmt"
	"math"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
)

// Launcher starts the platform's URL handler.
type Launcher struct {
	goos  string
	start func(*exec.Cmd) error
}

// New returns a Launcher for the running platform.
func New() *Launcher {
	return &Launcher{
		goos:  runtime.GOOS,
		start: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Open opens rawURL with the default browser. Only http and https URLs are
// passed on, so the argument can never be read as a command or local file.
func Open(rawURL string) error {
	return New().Open(rawURL)
}

// Open opens rawURL with the default browser.
func (l *Launcher) Open(rawURL string) error {
	cmd, err := l.command(rawURL)
	if err != nil {
		return err
	}
	return l.start(cmd)
}

func (l *Launcher) command(rawURL string) (*exec.Cmd, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsed.Scheme)
	}

	link := parsed.String()
	switch l.goos {
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", link), nil // #nosec G204 -- URL validated above
	case "darwin":
		return exec.Command("open", link), nil // #nosec G204 -- URL validated above
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil // #nosec G204 -- URL validated above
	}
	return nil, fmt.Errorf("unsupported platform: %s", l.goos)
}

// AtTime adds a start offset to a watch URL, rounded down to whole seconds.
func AtTime(watchURL string, millis float64) (string, error) {
	parsed, err := url.Parse(watchURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if millis < 0 || math.IsNaN(millis) {
		return "", fmt.Errorf("invalid start offset %v", millis)
	}

	q := parsed.Query()
	q.Set("t", strconv.FormatInt(int64(millis/1000), 10)+"s")
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
