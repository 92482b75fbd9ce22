package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// ErrNoClipboard is returned when no clipboard command can be found.
var ErrNoClipboard = errors.New("no clipboard command available")

// clipboardCandidates are tried in order when no command is configured.
var clipboardCandidates = []string{
	"wl-copy",
	"xclip -selection clipboard",
	"xsel --clipboard --input",
}

// Clipboard copies text by piping it into an external command.
type Clipboard struct {
	Command  string
	lookPath func(string) (string, error)
}

// NewClipboard returns a clipboard using command, or auto-detection when
// command is empty.
func NewClipboard(command string) *Clipboard {
	return &Clipboard{Command: command, lookPath: exec.LookPath}
}

// Copy writes text to the clipboard command's stdin.
func (c *Clipboard) Copy(text string) error {
	parts := strings.Fields(c.detect())
	if len(parts) == 0 {
		return ErrNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// detect returns the clipboard command line to run.
func (c *Clipboard) detect() string {
	if c.Command != "" {
		return c.Command
	}
	lookPath := c.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, candidate := range clipboardCandidates {
		bin, _, _ := strings.Cut(candidate, " ")
		if _, err := lookPath(bin); err == nil {
			return candidate
		}
	}
	return ""
}
