package bus

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

const SockName = "control.sock"
const PidName = "voicerec.pid"
const ProtoVer = "0.1"

// Single-byte commands understood by the daemon.
const (
	CmdToggle  = 't'
	CmdRetry   = 'r'
	CmdCancel  = 'c'
	CmdStatus  = 's'
	CmdQuit    = 'q'
	CmdVersion = 'v'
)

var ErrAlreadyRunning = errors.New("daemon already running")

// runtimeDir returns ~/.cache/voicerec, creating it if needed.
func runtimeDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	rd := filepath.Join(dir, "voicerec")
	if err := os.MkdirAll(rd, 0o700); err != nil {
		return "", err
	}
	return rd, nil
}

type pidManager struct {
	path string
}

func newPidManager() (*pidManager, error) {
	dir, err := runtimeDir()
	if err != nil {
		return nil, err
	}
	return &pidManager{path: filepath.Join(dir, PidName)}, nil
}

func (pm *pidManager) create() error {
	return os.WriteFile(pm.path, []byte(strconv.Itoa(os.Getpid())), 0o600)
}

func (pm *pidManager) remove() error {
	return os.Remove(pm.path)
}

// checkExisting returns ErrAlreadyRunning if a live daemon owns the pid
// file. Stale or invalid pid files are removed and do not count.
func (pm *pidManager) checkExisting() error {
	pidData, err := os.ReadFile(pm.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	pid, err := strconv.Atoi(string(pidData))
	if err != nil {
		_ = os.Remove(pm.path)
		return nil
	}

	if !pm.isProcessAlive(pid) {
		_ = os.Remove(pm.path)
		return nil
	}

	return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
}

func (pm *pidManager) isProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return errors.Is(err, syscall.EPERM)
}

type socketManager struct {
	path string
}

func newSocketManager() (*socketManager, error) {
	dir, err := runtimeDir()
	if err != nil {
		return nil, err
	}
	return &socketManager{path: filepath.Join(dir, SockName)}, nil
}

func (sm *socketManager) listen() (net.Listener, error) {
	_ = os.Remove(sm.path) // stale socket from last run
	return net.Listen("unix", sm.path)
}

func (sm *socketManager) dial() (net.Conn, error) {
	return net.Dial("unix", sm.path)
}

// CheckExistingDaemon reports whether another daemon instance holds the
// pid file. Used by serve to guarantee a single process instance.
func CheckExistingDaemon() error {
	pm, err := newPidManager()
	if err != nil {
		return err
	}
	return pm.checkExisting()
}

func CreatePidFile() error {
	pm, err := newPidManager()
	if err != nil {
		return err
	}
	return pm.create()
}

func RemovePidFile() error {
	pm, err := newPidManager()
	if err != nil {
		return err
	}
	return pm.remove()
}

func Listen() (net.Listener, error) {
	sm, err := newSocketManager()
	if err != nil {
		return nil, err
	}
	return sm.listen()
}

// SendCommand dials the daemon socket, sends a single command byte and
// returns the one-line response.
func SendCommand(cmd byte) (string, error) {
	sm, err := newSocketManager()
	if err != nil {
		return "", err
	}

	c, err := sm.dial()
	if err != nil {
		return "", err
	}
	defer c.Close()

	if _, err := c.Write([]byte{cmd, '\n'}); err != nil {
		return "", err
	}

	return bufio.NewReader(c).ReadString('\n')
}
