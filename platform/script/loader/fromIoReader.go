package loader

import (
	"fmt"
	"io"
)

// FromIoReader loads a body from an io.Reader, such as stdin.
type FromIoReader struct {
	memory
}

// NewFromIoReader reads reader to the end once, so GetReader can be called many times.
// sourceName becomes the host of the source URL; empty means "unnamed".
func NewFromIoReader(reader io.Reader, sourceName string) (*FromIoReader, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrScriptNotAvailable)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	if sourceName == "" {
		sourceName = "unnamed"
	}
	return &FromIoReader{memory: newMemory(content, "reader", sourceName)}, nil
}

func (l *FromIoReader) String() string {
	return l.describe("FromIoReader")
}
