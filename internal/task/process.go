package task

import (
	"fmt"
	"strings"
)

// Process is the fixed work category a task belongs to.
type Process string

const (
	ProcessMarketing   Process = "marketing"
	ProcessDevelopment Process = "development"
	ProcessClientWork  Process = "clientwork"
	ProcessOperations  Process = "operations"
	ProcessAdmin       Process = "admin"
)

// Processes returns all processes in display order.
func Processes() []Process {
	return []Process{ProcessMarketing, ProcessDevelopment, ProcessClientWork, ProcessOperations, ProcessAdmin}
}

// Valid returns true if the process is a known value.
func (p Process) Valid() bool {
	switch p {
	case ProcessMarketing, ProcessDevelopment, ProcessClientWork, ProcessOperations, ProcessAdmin:
		return true
	default:
		return false
	}
}

// Label returns the display name of the process.
func (p Process) Label() string {
	switch p {
	case ProcessMarketing:
		return "Marketing"
	case ProcessDevelopment:
		return "Development"
	case ProcessClientWork:
		return "Client work"
	case ProcessOperations:
		return "Operations"
	case ProcessAdmin:
		return "Admin"
	default:
		return string(p)
	}
}

// Short returns a three-letter tag for narrow columns.
func (p Process) Short() string {
	switch p {
	case ProcessMarketing:
		return "MKT"
	case ProcessDevelopment:
		return "DEV"
	case ProcessClientWork:
		return "CLI"
	case ProcessOperations:
		return "OPS"
	case ProcessAdmin:
		return "ADM"
	default:
		return "???"
	}
}

// ParseProcess accepts the process key or its label, case-insensitive.
func ParseProcess(s string) (Process, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	if key == "client" {
		key = string(ProcessClientWork)
	}
	p := Process(key)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProcess, s)
	}
	return p, nil
}
