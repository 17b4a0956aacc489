package script

import (
	"fmt"
	"log/slog"
	"time"

	engineTypes "github.com/robbyt/go-seval/engines/types"
	"github.com/robbyt/go-seval/internal/helpers"
	"github.com/robbyt/go-seval/platform/data"
	"github.com/robbyt/go-seval/platform/script/loader"
)

const checksumLength = 12

// ExecutableUnit is one compiled version of a script: its content, how it was loaded
// and compiled, and where its runtime parameter values come from.
type ExecutableUnit struct {
	// ID identifies this version; by default a prefix of the source's SHA-256.
	ID string

	CreatedAt    time.Time
	ScriptLoader loader.Loader
	Compiler     Compiler
	Content      ExecutableContent

	// DataProvider supplies parameter values at evaluation time.
	DataProvider data.Provider

	logger *slog.Logger
}

// NewExecutableUnit loads the script with scriptLoader and compiles it. An empty
// versionID is replaced by a checksum of the compiled source.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
) (*ExecutableUnit, error) {
	_, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if compiler == nil {
		return nil, fmt.Errorf("%w: compiler is nil", ErrCompiler)
	}
	if scriptLoader == nil {
		return nil, fmt.Errorf("%w: loader is nil", ErrLoader)
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoader, err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, err)
	}

	if versionID == "" {
		versionID = helpers.ShortID(exe.GetSource(), checksumLength)
	}

	logger = logger.With("ID", versionID)
	logger.Debug("executable unit created", "loader", scriptLoader, "compiler", compiler)

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Compiler:     compiler,
		Content:      exe,
		DataProvider: dataProvider,
		logger:       logger,
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt.Format(time.RFC3339), exe.Compiler, exe.ScriptLoader)
}

// GetID returns the unique identifier (version number, or name) for this script version.
func (exe *ExecutableUnit) GetID() string {
	return exe.ID
}

// GetContent returns the compiled script content.
func (exe *ExecutableUnit) GetContent() ExecutableContent {
	return exe.Content
}

// GetCreatedAt returns the timestamp when the version was created.
func (exe *ExecutableUnit) GetCreatedAt() time.Time {
	return exe.CreatedAt
}

// GetMachineType returns the engine this script is intended to run on.
func (exe *ExecutableUnit) GetMachineType() engineTypes.Type {
	return exe.Content.GetMachineType()
}

// GetCompiler returns the compiler used to check the script and build its compiled form.
func (exe *ExecutableUnit) GetCompiler() Compiler {
	return exe.Compiler
}

// GetLoader returns the loader used to load the script.
func (exe *ExecutableUnit) GetLoader() loader.Loader {
	return exe.ScriptLoader
}

// GetDataProvider returns the data provider for this executable unit.
func (exe *ExecutableUnit) GetDataProvider() data.Provider {
	return exe.DataProvider
}
