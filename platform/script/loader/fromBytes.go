package loader

// FromBytes loads a body from a byte slice. The slice is copied, so the caller may reuse it.
type FromBytes struct {
	memory
}

func NewFromBytes(content []byte) (*FromBytes, error) {
	return &FromBytes{memory: newMemory(content, "bytes", "inline")}, nil
}

func (l *FromBytes) String() string {
	return l.describe("FromBytes")
}
