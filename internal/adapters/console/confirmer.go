package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"property-map/internal/contextkeys"
	"property-map/internal/core/port"
	"strings"

	"golang.org/x/term"
)

// TerminalConfirmer задает вопрос "y/N" в консоли.
// На настоящем терминале ответ читается одной клавишей в raw-режиме, иначе строкой.
// Все, кроме y/yes, считается отказом.
type TerminalConfirmer struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
	raw    bool
}

var _ port.ConfirmerPort = (*TerminalConfirmer)(nil)

// NewTerminalConfirmer читает ответы из того же reader, что и командная строка,
// иначе уже прочитанные в буфер строки потеряются.
func NewTerminalConfirmer(reader *bufio.Reader, out io.Writer, in *os.File) *TerminalConfirmer {
	c := &TerminalConfirmer{reader: reader, out: out, fd: -1}
	if in != nil {
		c.fd = int(in.Fd())
		c.raw = term.IsTerminal(c.fd)
	}
	return c
}

func (c *TerminalConfirmer) Confirm(ctx context.Context, prompt string) bool {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "TerminalConfirmer"})
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)

	var answer string
	if c.raw {
		a, err := c.readKey()
		if err != nil {
			logger.Warn("Raw mode unavailable, falling back to line input", port.Fields{"error": err.Error()})
			answer = c.readLine()
		} else {
			answer = a
			fmt.Fprintln(c.out, answer)
		}
	} else {
		answer = c.readLine()
	}

	granted := isYes(answer)
	logger.Debug("Confirmation answered", port.Fields{"granted": granted})
	return granted
}

// readKey читает одну клавишу без Enter.
func (c *TerminalConfirmer) readKey() (string, error) {
	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(c.fd, oldState)

	b, err := c.reader.ReadByte()
	if err != nil {
		return "", nil
	}
	switch b {
	case 3, 27: // Ctrl-C, Esc
		return "", nil
	case '\r', '\n':
		return "", nil
	}
	return string(b), nil
}

func (c *TerminalConfirmer) readLine() string {
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return line
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
