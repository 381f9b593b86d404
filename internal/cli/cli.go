// Package cli parses the murmur command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandStatus  Command = "status"
	CommandStart   Command = "start"
	CommandStop    Command = "stop"
	CommandReset   Command = "reset"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:     {},
	CommandStatus:  {},
	CommandStart:   {},
	CommandStop:    {},
	CommandReset:   {},
	CommandDevices: {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

type Parsed struct {
	Command      Command
	SettingsPath string
	FakeHotkey   bool
	Verbose      bool
	ShowHelp     bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--verbose":
			parsed.Verbose = true
		case "--fake-hotkey":
			parsed.FakeHotkey = true
		case "--settings":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--settings requires a path")
			}
			parsed.SettingsPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--settings PATH] [--verbose] <command>

Commands:
  run       Run the dictation daemon (global hotkey + control socket)
  status    Print the current session state
  start     Start recording in the running daemon
  stop      Stop recording and print the transcript
  reset     Reset the running daemon to idle
  devices   List available audio input devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --settings PATH   Settings file path (default: $XDG_CONFIG_HOME/murmur/settings.json)
  --fake-hotkey     Run without registering a global hotkey (control socket only)
  --verbose         Enable debug logging
  -h, --help        Show help
  --version         Show version
`, binaryName)
}
