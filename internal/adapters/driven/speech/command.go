// Package speech turns spoken input into text by delegating to an
// external recogniser command (for example a whisper.cpp wrapper).
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/recipedelight/delight/internal/core/ports/driven"
	"github.com/recipedelight/delight/internal/logger"
)

// Ensure CommandRecognizer implements the interface.
var _ driven.SpeechRecognizer = (*CommandRecognizer)(nil)

// ErrNotConfigured is returned when no recogniser command is set.
var ErrNotConfigured = errors.New("speech recognition not available: set speech.command in config")

// ErrNothingHeard is returned when the recogniser produced no text.
var ErrNothingHeard = errors.New("no speech recognised")

// CommandRecognizer runs a command that records one utterance and prints
// the transcript on stdout.
type CommandRecognizer struct {
	command string
}

// NewCommandRecognizer creates a recogniser for the given command line.
// Arguments are split on whitespace; no shell is involved.
func NewCommandRecognizer(command string) *CommandRecognizer {
	return &CommandRecognizer{command: strings.TrimSpace(command)}
}

// Listen runs the command and returns its trimmed stdout.
func (r *CommandRecognizer) Listen(ctx context.Context) (string, error) {
	args := strings.Fields(r.command)
	if len(args) == 0 {
		return "", ErrNotConfigured
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("speech: running %s", args[0])
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("speech command failed: %w: %s", err, msg)
		}
		return "", fmt.Errorf("speech command failed: %w", err)
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", ErrNothingHeard
	}
	return text, nil
}

// Available reports whether a command is configured.
func (r *CommandRecognizer) Available() bool {
	return r.command != ""
}

// ErrorText renders a recogniser failure for display next to the chat.
func ErrorText(err error) string {
	if errors.Is(err, ErrNotConfigured) {
		return "Error: Speech recognition not available on this device"
	}
	return "Error: " + err.Error()
}
