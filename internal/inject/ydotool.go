package inject

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ydotoolBackend types text through ydotool. When ydotoold is installed
// its control socket must be reachable; without the daemon binary the
// plain ydotool invocation is assumed to work standalone.
type ydotoolBackend struct{}

func (y *ydotoolBackend) Name() string {
	return "ydotool"
}

func (y *ydotoolBackend) Available() error {
	if _, err := exec.LookPath("ydotool"); err != nil {
		return fmt.Errorf("ydotool not found: %w (install ydotool package)", err)
	}
	if _, err := exec.LookPath("ydotoold"); err != nil {
		return nil
	}

	sock, err := ydotoolSocket()
	if err != nil {
		return err
	}
	return probeYdotoolSocket(sock)
}

// ydotoolSocket resolves the ydotoold control socket to the first
// candidate that exists on disk.
func ydotoolSocket() (string, error) {
	for _, p := range ydotoolSocketCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", errors.New("ydotoold socket not found, is ydotoold running")
}

// ydotoolSocketCandidates lists socket locations in resolution order:
// the explicit YDOTOOL_SOCKET override, the runtime dir, the legacy
// /tmp fallback.
func ydotoolSocketCandidates() []string {
	var paths []string
	if sock := os.Getenv("YDOTOOL_SOCKET"); sock != "" {
		paths = append(paths, sock)
	}
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ".ydotool_socket"))
	}
	return append(paths,
		fmt.Sprintf("/run/user/%d/.ydotool_socket", os.Getuid()),
		"/tmp/.ydotool_socket",
	)
}

// probeYdotoolSocket connects to the daemon. ydotoold 1.0.4+ listens on
// a datagram socket; older versions use a stream socket.
func probeYdotoolSocket(path string) error {
	conn, err := net.Dial("unixgram", path)
	if err != nil {
		conn, err = net.DialTimeout("unix", path, 500*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("ydotoold not responding at %s: %w", path, err)
	}
	return conn.Close()
}

func (y *ydotoolBackend) Paste(ctx context.Context, text string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ydotool", "type", "--", text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ydotool failed: %w", err)
	}
	return nil
}
