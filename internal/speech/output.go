package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand plays a WAV stream from stdin on ALSA.
const DefaultCommand = "aplay -q -"

// Output plays a WAV clip. Play blocks until playback ends or ctx is
// cancelled.
type Output interface {
	Play(ctx context.Context, wav []byte) error
}

// CommandOutput pipes the clip into an external player command.
type CommandOutput struct {
	// Command is split on whitespace; the clip is written to its stdin.
	Command string
}

// NewCommandOutput returns an output for command, or DefaultCommand when
// command is empty.
func NewCommandOutput(command string) *CommandOutput {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return &CommandOutput{Command: command}
}

func (o *CommandOutput) Play(ctx context.Context, wav []byte) error {
	args := strings.Fields(o.Command)
	if len(args) == 0 {
		return errors.New("audio command is empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(wav)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}
