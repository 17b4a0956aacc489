package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns the handler and a logger for one component of the sandbox.
// A nil handler falls back to a text handler on stderr, grouped under the component
// name, and a warning is emitted so the missing configuration is visible.
//
// Parameters:
//   - handler: The slog.Handler to use, or nil for defaults
//   - component: The name of the component (e.g., "safejs", "script")
//   - groupName: Optional group name within the component
func SetupLogger(
	handler slog.Handler,
	component string,
	groupName string,
) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(groupName))
}

// LoggerFromOptions resolves the logger pair used by option-configured components:
// an explicit logger wins, otherwise one is built from the handler.
func LoggerFromOptions(
	logger *slog.Logger,
	handler slog.Handler,
	component string,
	groupName string,
) (slog.Handler, *slog.Logger) {
	if logger != nil {
		return logger.Handler(), logger
	}
	return SetupLogger(handler, component, groupName)
}
