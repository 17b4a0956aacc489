package compiler

import (
	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/engines/safejs/syntax"
	engineTypes "github.com/robbyt/go-seval/engines/types"
)

// Executable is a body that passed validation, with its compiled isolation unit.
type Executable struct {
	scriptBodyBytes []byte
	source          *syntax.Source
	unit            *isolation.Unit
}

func newExecutable(scriptBodyBytes []byte, source *syntax.Source, unit *isolation.Unit) *Executable {
	if source == nil || unit == nil {
		return nil
	}

	return &Executable{
		scriptBodyBytes: scriptBodyBytes,
		source:          source,
		unit:            unit,
	}
}

// GetSource returns the body text as given, without the wrapper.
func (e *Executable) GetSource() string {
	return string(e.scriptBodyBytes)
}

// GetByteCode returns the *isolation.Unit.
func (e *Executable) GetByteCode() any {
	return e.unit
}

// GetUnit returns the compiled unit without the type assertion.
func (e *Executable) GetUnit() *isolation.Unit {
	return e.unit
}

// GetParams returns the declared parameter names, in binding order.
func (e *Executable) GetParams() []string {
	return e.source.Params()
}

func (e *Executable) GetMachineType() engineTypes.Type {
	return engineTypes.SafeJS
}
