package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-seval/platform/data"
)

// EvaluatorResponse is a mock implementation of the platform.EvaluatorResponse interface.
type EvaluatorResponse struct {
	mock.Mock
}

// Type returns the mocked type. A Go value is mapped to the type a script would
// report for it.
func (m *EvaluatorResponse) Type() data.Types {
	args := m.Called()

	switch val := args.Get(0).(type) {
	case data.Types:
		return val
	case nil:
		return data.UNDEFINED
	case bool:
		return data.BOOL
	case int, int64, float64:
		return data.NUMBER
	case string:
		return data.STRING
	case []any:
		return data.LIST
	case map[string]any:
		return data.MAP
	default:
		panic("unknown type")
	}
}

// Inspect returns a mockable string.
func (m *EvaluatorResponse) Inspect() string {
	args := m.Called()
	return args.String(0)
}

// Interface returns a mockable value of "any" type, and must be type asserted to the correct type.
func (m *EvaluatorResponse) Interface() any {
	args := m.Called()
	return args.Get(0)
}

// GetScriptExeID returns a mockable script version.
func (m *EvaluatorResponse) GetScriptExeID() string {
	args := m.Called()
	return args.String(0)
}

// GetRunID returns a mockable run identifier.
func (m *EvaluatorResponse) GetRunID() string {
	args := m.Called()
	return args.String(0)
}

// GetExecTime returns a mockable execution time.
func (m *EvaluatorResponse) GetExecTime() string {
	args := m.Called()
	return args.String(0)
}
