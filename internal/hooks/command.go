package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/basicagent/internal/config"
)

const (
	defaultCommandTimeout = 10 * time.Second

	// waitDelay bounds how long Run waits for pipes held open by
	// children of a killed hook.
	waitDelay = 500 * time.Millisecond
)

// CommandHandler returns a Handler that runs entry.Command through sh -c,
// writing the JSON payload to its stdin.
func CommandHandler(entry config.HookEntry) Handler {
	timeout := defaultCommandTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Millisecond
	}

	return func(ctx context.Context, p Payload) error {
		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", entry.Command)
		killProcessGroup(cmd)
		cmd.WaitDelay = waitDelay
		cmd.Stdin = bytes.NewReader(input)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("hook %q: %w: %s", entry.Command, err, msg)
			}
			return fmt.Errorf("hook %q: %w", entry.Command, err)
		}
		return nil
	}
}

// RegisterConfig registers a command handler for every configured hook.
func RegisterConfig(m *Manager, cfg config.HooksConfig) {
	register := func(event string, entries []config.HookEntry) {
		for i, e := range entries {
			m.On(event, fmt.Sprintf("%s[%d]", event, i), CommandHandler(e))
		}
	}
	register(EventBeforeAsk, cfg.BeforeAsk)
	register(EventAfterAsk, cfg.AfterAsk)
	register(EventAskFailed, cfg.AskFailed)
}
