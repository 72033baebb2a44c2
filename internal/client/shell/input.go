package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// TerminalPassword returns a reader for Config.ReadPassword when fd is a
// terminal, nil otherwise.
func TerminalPassword(fd int) func() (string, error) {
	if !term.IsTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
}

// StdinPassword is TerminalPassword for the process stdin.
func StdinPassword() func() (string, error) {
	return TerminalPassword(int(os.Stdin.Fd()))
}

// readLine returns the next input line, trimmed. A last line without newline
// is returned as is.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprintf(s.out, "%s : ", prompt)
	return s.readLine()
}

// askDefault shows def and returns it for a blank answer.
func (s *Shell) askDefault(prompt, def string) (string, error) {
	if def == "" {
		return s.ask(prompt)
	}
	fmt.Fprintf(s.out, "%s [%s] : ", prompt, def)
	v, err := s.readLine()
	if err != nil || v != "" {
		return v, err
	}
	return def, nil
}

func (s *Shell) askPassword(prompt string) (string, error) {
	fmt.Fprintf(s.out, "%s : ", prompt)
	if s.readPass == nil {
		return s.readLine()
	}
	pw, err := s.readPass()
	fmt.Fprintln(s.out)
	return pw, err
}

func optInt(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("nombre entier attendu : %q", v)
	}
	return &n, nil
}

func optFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("nombre attendu : %q", v)
	}
	return &f, nil
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func showInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func showFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func showString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
