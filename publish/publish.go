// Package publish delivers composed messages to their destination
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var ErrPublish = errors.New("unable to publish message")

// Publisher sends a single composed message
type Publisher interface {
	// Publish delivers the message. Failures are not retried
	Publish(ctx context.Context, text string) error
}

const writerSeparator = "----"

// Writer publishes messages to an io.Writer, used for dry runs
type Writer struct {
	w   io.Writer
	mux sync.Mutex
}

// NewWriter creates a new writer publisher
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Publish(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	w.mux.Lock()
	defer w.mux.Unlock()

	if _, err := fmt.Fprintf(w.w, "%s\n%s\n", text, writerSeparator); err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	return nil
}
