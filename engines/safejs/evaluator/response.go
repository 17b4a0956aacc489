package evaluator

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-seval/engines/safejs/isolation"
	"github.com/robbyt/go-seval/internal/helpers"
	"github.com/robbyt/go-seval/platform/data"
)

// execResult is the converted value of one run, with timing and identifiers.
type execResult struct {
	value       any
	valueType   data.Types
	execTime    time.Duration
	scriptExeID string
	runID       string
	logger      *slog.Logger
}

func newEvalResult(
	handler slog.Handler,
	res isolation.Result,
	execTime time.Duration,
	versionID string,
	runID string,
) *execResult {
	_, logger := helpers.SetupLogger(handler, "safejs", "execResult")

	return &execResult{
		value:       res.Value,
		valueType:   res.Type,
		execTime:    execTime,
		scriptExeID: versionID,
		runID:       runID,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"execResult{Type: %s, Value: %s, ExecTime: %s, ScriptExeID: %s, RunID: %s}",
		r.Type(), r.Inspect(), r.GetExecTime(), r.GetScriptExeID(), r.GetRunID())
}

// Type reports the script type of the value.
func (r *execResult) Type() data.Types {
	if r.valueType == "" {
		return data.UNDEFINED
	}
	return r.valueType
}

// Inspect renders the value as a script literal.
func (r *execResult) Inspect() string {
	switch r.Type() {
	case data.UNDEFINED:
		return "undefined"
	case data.NULL:
		return "null"
	case data.FUNCTION:
		return "function"
	case data.ERROR:
		return "error"
	}

	b, err := json.Marshal(r.value)
	if err != nil {
		r.logger.Warn("unable to render value", "error", err)
		return fmt.Sprintf("%v", r.value)
	}
	return string(b)
}

// Interface returns the value as bool, float64, string, []any, map[string]any or nil.
func (r *execResult) Interface() any {
	return r.value
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

// GetRunID returns the identifier of the run that produced the value.
func (r *execResult) GetRunID() string {
	return r.runID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}
