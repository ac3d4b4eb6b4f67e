// Package clipboard implements dashboard.Clipboard for a local desktop and for
// remote terminals that understand OSC 52.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

var ErrUnsupported = errors.New("clipboard unavailable")

var writeAllFunc = clipboard.WriteAll

// Unsupported reports whether no system clipboard tool was found.
func Unsupported() bool {
	return clipboard.Unsupported
}

// Local writes to the system clipboard of the machine running the process.
type Local struct{}

func (Local) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if Unsupported() {
		return ErrUnsupported
	}
	if err := writeAllFunc(text); err != nil {
		return fmt.Errorf("write system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal on the other end of w to set its clipboard.
type OSC52 struct {
	mu     sync.Mutex
	w      io.Writer
	screen bool
}

// NewOSC52 writes sequences to w. Set screen when the client runs inside GNU screen.
func NewOSC52(w io.Writer, screen bool) *OSC52 {
	return &OSC52{w: w, screen: screen}
}

func (o *OSC52) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	if o.screen {
		seq = seq.Screen()
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := seq.WriteTo(o.w); err != nil {
		return fmt.Errorf("write osc52 sequence: %w", err)
	}
	return nil
}
