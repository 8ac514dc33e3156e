package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/covyhq/covy/internal/client/views"
)

var alertPrefix = map[views.AlertLevel]string{
	views.AlertSuccess: "[ok]",
	views.AlertError:   "[error]",
	views.AlertInfo:    "[info]",
}

// Console prints alerts and asks confirmations on the terminal.
type Console struct {
	reader *bufio.Reader
	mu     sync.Mutex
	w      io.Writer
}

var (
	_ views.Alerter   = (*Console)(nil)
	_ views.Confirmer = (*Console)(nil)
)

func NewConsole(reader *bufio.Reader, w io.Writer) *Console {
	return &Console{reader: reader, w: w}
}

func (c *Console) Alert(level views.AlertLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, alertPrefix[level], message)
}

// Confirm reads the answer from the terminal. A read error is a no.
func (c *Console) Confirm(_ context.Context, question string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok, err := GetYesNo(c.reader, question, c.w)
	return err == nil && ok
}

// Printf writes free-form output under the console lock.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
