package input

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Split separates a prompt line into the command name and its arguments.
// Quotes group words, so `/task "Write blog" marketing 4` yields three
// arguments. An unterminated quote is an error.
func Split(line string) (name string, args []string, err error) {
	fields, err := shellwords.Parse(strings.TrimSpace(line))
	if err != nil {
		return "", nil, fmt.Errorf("parsing %q: %w", line, err)
	}
	if len(fields) == 0 {
		return "", nil, nil
	}
	return strings.ToLower(fields[0]), fields[1:], nil
}
