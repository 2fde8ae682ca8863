package gallery

import (
	"fmt"
	"strings"
)

// Command selects the handler Run dispatches to.
type Command int

const (
	CommandPrepare Command = iota
	CommandProcess
)

func (c Command) String() string {
	switch c {
	case CommandPrepare:
		return "prepare"
	case CommandProcess:
		return "process"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ParseCommand maps a command name to its Command.
func ParseCommand(name string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "prepare":
		return CommandPrepare, nil
	case "process":
		return CommandProcess, nil
	default:
		return 0, fmt.Errorf("unknown command %q", name)
	}
}

// Options are shared by every command.
type Options struct {
	// Dir is the gallery directory.
	Dir string
	// Archive bundles the images into _web/sg.tgz.
	Archive bool
}
