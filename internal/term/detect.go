package term

import (
	"os"
	"strings"
)

// InTmux reports whether the process runs inside a tmux session.
func InTmux() bool {
	return os.Getenv("TMUX") != ""
}

// InSSH reports whether the process runs over an SSH connection.
func InSSH() bool {
	return os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != ""
}

// KittySupported checks if the terminal supports Kitty graphics protocol.
// Inside tmux, $TERM describes tmux, so only variables inherited from the
// outer terminal are meaningful.
func KittySupported() bool {
	// Contour sets CONTOUR_PROFILE but doesn't support Kitty protocol.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if version := os.Getenv("KONSOLE_VERSION"); len(version) >= 4 && version[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}
