package adb

import "fmt"

// TransportError indicates the device is unreachable: adb is missing, could
// not be started, or the connection dropped mid-command.
type TransportError struct {
	Op  string // adb arguments that were being run
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("adb %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CommandError indicates the device delivered a command but the command
// exited non-zero. The device is still reachable.
type CommandError struct {
	Op     string // adb arguments that were run
	Output string // combined stdout and stderr, trimmed
	Code   int
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("adb %s: exit %d: %s", e.Op, e.Code, e.Output)
	}
	return fmt.Sprintf("adb %s: exit %d", e.Op, e.Code)
}
