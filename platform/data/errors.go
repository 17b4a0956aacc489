package data

import "errors"

var (
	// ErrStaticProviderNoRuntimeUpdates is returned when adding data to a StaticProvider.
	ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not support runtime updates")

	// ErrContextKeyEmpty is returned by a ContextProvider built without a key.
	ErrContextKeyEmpty = errors.New("context key is empty")

	// ErrEmptyKey is returned for empty map keys.
	ErrEmptyKey = errors.New("empty keys are not allowed")

	// ErrNoProvider is returned when no provider is available for the operation.
	ErrNoProvider = errors.New("no data provider available")
)
