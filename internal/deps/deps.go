package deps

import (
	"os/exec"
	"strings"
)

// Status represents the installation status of a dependency
type Status struct {
	Installed bool
	Path      string
	Version   string
}

// Check describes one external tool the daemon relies on.
type Check struct {
	Name     string
	Required bool
	Status   Status
}

// CheckPwRecord checks if pw-record is installed and returns its status
func CheckPwRecord() Status {
	return lookup("pw-record", "--version")
}

// CheckFFmpeg checks if ffmpeg is installed and returns its status
func CheckFFmpeg() Status {
	return lookup("ffmpeg", "-version")
}

// CheckYdotool checks if ydotool is installed and returns its status
func CheckYdotool() Status {
	return lookup("ydotool", "--help")
}

// CheckWtype checks if wtype is installed. wtype has no version flag.
func CheckWtype() Status {
	path, err := exec.LookPath("wtype")
	if err != nil {
		return Status{Installed: false}
	}
	return Status{Installed: true, Path: path}
}

// CheckWlCopy checks if wl-copy is installed and returns its status
func CheckWlCopy() Status {
	return lookup("wl-copy", "--version")
}

// CheckNotifySend checks if notify-send is installed and returns its status
func CheckNotifySend() Status {
	return lookup("notify-send", "--version")
}

// All runs every dependency check. Capture and conversion tools are
// required; the rest degrade gracefully when missing.
func All() []Check {
	return []Check{
		{Name: "pw-record", Required: true, Status: CheckPwRecord()},
		{Name: "ffmpeg", Required: true, Status: CheckFFmpeg()},
		{Name: "ydotool", Required: false, Status: CheckYdotool()},
		{Name: "wtype", Required: false, Status: CheckWtype()},
		{Name: "wl-copy", Required: false, Status: CheckWlCopy()},
		{Name: "notify-send", Required: false, Status: CheckNotifySend()},
	}
}

// MissingRequired returns the names of required tools that are absent.
func MissingRequired() []string {
	var missing []string
	for _, c := range All() {
		if c.Required && !c.Status.Installed {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func lookup(name string, versionArg string) Status {
	path, err := exec.LookPath(name)
	if err != nil {
		return Status{Installed: false}
	}

	status := Status{
		Installed: true,
		Path:      path,
	}

	// parse first line of the version output
	cmd := exec.Command(path, versionArg)
	output, err := cmd.Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}
