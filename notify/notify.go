// Package notify is the fire-and-forget user message surface: the terminal
// analog of the mobile app's toast. Callers treat it as best-effort and
// never block on it.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to the Notifier interface.
type Func func(message string)

func (f Func) Notify(message string) {
	f(message)
}

// Writer prints one line per message. A nil Out writes to stderr so the
// message never mixes with command output meant for piping.
type Writer struct {
	Out io.Writer
}

var _ Notifier = Writer{}

func (w Writer) Notify(message string) {
	out := w.Out
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, message)
}
