package script

import (
	engineTypes "github.com/robbyt/go-seval/engines/types"
)

// ExecutableContent is checked script content, ready to run. It carries the source
// text and the engine-specific compiled form.
type ExecutableContent interface {
	// GetSource returns the original script content as a string.
	GetSource() string

	// GetByteCode returns the compiled form. Engines assert it into their own type and
	// fail at evaluation time when the assertion does not hold.
	GetByteCode() any

	// GetMachineType returns the engine type this script is intended to run on.
	GetMachineType() engineTypes.Type
}
