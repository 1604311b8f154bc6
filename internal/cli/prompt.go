package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/spec-kit/invoich-web/internal/domain"
)

// ParseAnswer reports whether line is an affirmative reply. Anything but
// y or yes, case-insensitive, is a no.
func ParseAnswer(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// TerminalConfirmer asks a y/N question on the terminal.
type TerminalConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewTerminalConfirmer reads answers from in and writes questions to out.
// With assumeYes every prompt is approved without asking.
func NewTerminalConfirmer(in io.Reader, out io.Writer, assumeYes bool) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm prints prompt and waits for an answer. End of input counts as no.
func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt domain.Prompt) (bool, error) {
	if c.assumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := fmt.Fprintf(c.out, "%s %s [y/N]: ", prompt.Title, prompt.Text); err != nil {
		return false, err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return ParseAnswer(line), nil
}

// ReadSecret prompts for label and reads a line without echo when in is a
// terminal. Other readers are read line by line.
func ReadSecret(in io.Reader, out io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(out, "%s: ", label); err != nil {
		return "", err
	}

	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		secret, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	line, err := readLine(in)
	if err != nil {
		return "", err
	}
	return line, nil
}

// readLine reads up to the next newline one byte at a time so that later
// reads from in see the remaining input.
func readLine(in io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}
