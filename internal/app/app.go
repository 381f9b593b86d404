// Package app wires the CLI commands to the session controller, the control
// socket, and the global hotkey.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/murmurapp/murmur/internal/audio"
	"github.com/murmurapp/murmur/internal/cli"
	"github.com/murmurapp/murmur/internal/doctor"
	"github.com/murmurapp/murmur/internal/ipc"
	"github.com/murmurapp/murmur/internal/logging"
	"github.com/murmurapp/murmur/internal/settings"
	"github.com/murmurapp/murmur/internal/version"
)

const forwardTimeout = 5 * time.Second

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("murmur"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("murmur"))
		return 0
	}
	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New(parsed.Verbose)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	store, err := settings.NewStore(parsed.SettingsPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("command start",
		"command", parsed.Command,
		"settings", store.Path(),
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, store)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandStart:
		return r.forwardOrFail(ctx, ipc.CommandStart)
	case cli.CommandStop:
		return r.commandStop(ctx)
	case cli.CommandReset:
		return r.forwardOrFail(ctx, ipc.CommandReset)
	case cli.CommandRun:
		return r.commandRun(ctx, store, parsed.FakeHotkey, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%t | muted=%t\n",
			defaultMark, device.ID, device.Description, device.State,
			device.Available, device.Muted,
		)
	}
	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	resp, handled, err := r.tryForward(ctx, ipc.CommandStatus)
	if !handled {
		fmt.Fprintln(r.Stdout, "idle (no daemon running)")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	line := resp.State
	if resp.Reason != "" {
		line += ": " + resp.Reason
	}
	fmt.Fprintln(r.Stdout, line)
	if resp.Partial != "" {
		fmt.Fprintf(r.Stdout, "partial: %s\n", resp.Partial)
	}
	if resp.Final != "" {
		fmt.Fprintf(r.Stdout, "final: %s\n", resp.Final)
	}
	return 0
}

func (r Runner) commandStop(ctx context.Context) int {
	resp, handled, err := r.tryForward(ctx, ipc.CommandStop)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no murmur daemon running")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Final != "" {
		fmt.Fprintln(r.Stdout, resp.Final)
	}
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, command string) int {
	resp, handled, err := r.tryForward(ctx, command)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no murmur daemon running")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// tryForward sends a command to a running daemon. handled=false means no
// daemon owns the socket.
func (r Runner) tryForward(ctx context.Context, command string) (ipc.Response, bool, error) {
	socketPath, err := ipc.SocketPath()
	if err != nil {
		return ipc.Response{}, false, nil
	}

	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) || errors.Is(err, syscall.ECONNREFUSED) {
		return ipc.Response{}, false, nil
	}
	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}
