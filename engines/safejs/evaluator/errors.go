package evaluator

import "errors"

var (
	ErrExecUnitNil    = errors.New("executable unit is nil")
	ErrContentNil     = errors.New("content is nil")
	ErrByteCodeType   = errors.New("bytecode is not a safejs unit")
	ErrExeIDEmpty     = errors.New("exeID is empty")
	ErrNoDataProvider = errors.New("no data provider available")
)
