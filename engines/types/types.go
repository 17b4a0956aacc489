// Package types names the execution engines a compiled script can target.
package types

// Type identifies an engine.
type Type string

const (
	// SafeJS is the allow-listed JavaScript subset run on goja.
	SafeJS Type = "safejs"
)

func (t Type) String() string {
	return string(t)
}
