// Package cmecdriver maintains a per-user library of CMEC-compliant
// evaluation modules and launches their driver scripts against local
// observational and model data.
package cmecdriver

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/cmecmetrics/cmec-driver/internal/library"
	"github.com/cmecmetrics/cmec-driver/internal/output"
	"github.com/cmecmetrics/cmec-driver/internal/runner"
	"github.com/cmecmetrics/cmec-driver/internal/userconfig"
)

type VerbosityLevel int

const (
	DefaultVerbosity VerbosityLevel = iota
	VerboseMode
	QuietMode
)

// Confirm represents a yes/no decision callback. Implementations must
// treat "no" as the default answer.
type Confirm func(question string) bool

// Config holds a set of common configuration switches that concern all
// calls to the driver API. The zero value is a sensible default.
type Config struct {
	Verbosity      VerbosityLevel
	LibraryFile    string //absolute library file path, "" uses ~/.cmeclibrary
	UserConfigFile string //absolute user configuration path, "" uses ~/.cmec/cmec.json
	Confirm        Confirm
	Runner         runner.ProcessRunner //launches generated scripts, nil uses the embedded shell
}

type Driver interface {

	// Register validates the descriptor of the module rooted at the
	// given directory, records the module's default parameters in the
	// user configuration and adds it to the library.
	Register(directory string) error

	// Unregister removes a module from the library and drops its
	// default parameters from the user configuration.
	Unregister(moduleName string) error

	// List prints the registered modules as a tree. With showAll each
	// module's configurations are included.
	List(showAll bool) error

	// Run launches the driver scripts of the given targets ("Module" or
	// "Module/configuration") sequentially against the observational
	// and model data directories, one output directory per target below
	// workingDir. A failing driver script does not abort the batch.
	Run(ctx context.Context, obsDir string, modelDir string, workingDir string, targets []string) error

	// Setup stores, clears or prints the conda locations exported to
	// every driver script.
	Setup(options SetupOptions) error
}

type driver struct {
	lib        *library.Store
	userCfg    *userconfig.Store
	printer    output.Printer
	confirm    func(question string) bool
	procRunner runner.ProcessRunner
}

// New creates a driver handle operating on the user's CMEC library.
func New(config Config) (Driver, error) {
	handle := &driver{
		lib:        library.NewStore(config.LibraryFile),
		confirm:    config.Confirm,
		procRunner: config.Runner,
	}
	if handle.confirm == nil {
		handle.confirm = func(string) bool { return false }
	}
	if handle.procRunner == nil {
		handle.procRunner = runner.NewShellRunner()
	}

	userConfigFile := config.UserConfigFile
	if userConfigFile == "" {
		home, err := library.HomeDirectory()
		if err != nil {
			return nil, err
		}
		userConfigFile = filepath.Join(home, userconfig.DirName, userconfig.FileName)
	}
	handle.userCfg = userconfig.NewStore(userConfigFile)

	log.SetReportTimestamp(false)
	switch config.Verbosity {
	case VerboseMode:
		handle.printer = output.NewPrinter([]output.Class{output.Required, output.Error, output.Normal, output.Verbose})
		log.SetLevel(log.DebugLevel)
	case QuietMode:
		handle.printer = output.NewPrinter([]output.Class{output.Required, output.Error})
		log.SetLevel(log.ErrorLevel)
	default:
		handle.printer = output.NewPrinter([]output.Class{output.Required, output.Error, output.Normal})
	}
	return handle, nil
}
