package script

import "io"

// Compiler checks a script and turns it into ExecutableContent. The reader is
// consumed and closed.
type Compiler interface {
	Compile(scriptReader io.ReadCloser) (ExecutableContent, error)
}
