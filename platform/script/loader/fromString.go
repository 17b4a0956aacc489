package loader

// FromString loads a body given as a Go string.
type FromString struct {
	memory
}

// NewFromString keeps content as given. An empty body is valid and returns undefined.
func NewFromString(content string) (*FromString, error) {
	return &FromString{memory: newMemory([]byte(content), "string", "inline")}, nil
}

func (l *FromString) String() string {
	return l.describe("FromString")
}
