package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user a yes/no question. It exists as an interface
// so the overwrite guard can be tested without a terminal.
type Prompter interface {
	// Confirm prints the prompt and reads one answer. An empty answer
	// means yes.
	Confirm(prompt string) (bool, error)
}

// TerminalPrompter prompts on an output stream and reads the answer
// from an input stream, normally os.Stdout and os.Stdin.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter over the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm implements Prompter. "y", "yes" (any case) and an empty
// answer are affirmative; anything else declines.
func (p *TerminalPrompter) Confirm(prompt string) (bool, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return false, err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes", nil
}
