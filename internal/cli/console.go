package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// console serialises output from the command loop and background pollers
// and reads operator input line by line.
type console struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Scanner
}

func newConsole(in io.Reader, out io.Writer) *console {
	return &console{out: out, in: bufio.NewScanner(in)}
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// write runs fn with exclusive access to the output.
func (c *console) write(fn func(w io.Writer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.out)
}

// readLine prompts and returns the next line, or false at end of input.
func (c *console) readLine(prompt string) (string, bool) {
	if prompt != "" {
		c.printf("%s", prompt)
	}
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

// Confirm implements admin.Confirmer. Only an explicit yes confirms.
func (c *console) Confirm(_ context.Context, prompt string) (bool, error) {
	line, ok := c.readLine(prompt + " [y/N] ")
	if !ok {
		return false, io.EOF
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

type handler func(ctx context.Context, args []string) error

// loop reads commands until "quit" or end of input. Command errors are
// printed and the loop continues.
func (c *console) loop(ctx context.Context, prompt string, cmds map[string]handler, help string) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := c.readLine(prompt)
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := strings.ToLower(fields[0]), fields[1:]
		switch name {
		case "quit", "exit":
			return nil
		case "help", "?":
			c.printf("%s\n", help)
			continue
		}
		h, ok := cmds[name]
		if !ok {
			c.printf("unknown command %q, try help\n", name)
			continue
		}
		if err := h(ctx, args); err != nil {
			c.printf("error: %s\n", err)
		}
	}
}
