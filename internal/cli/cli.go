package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/platformctl/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageHeader = `
platformctl - resolves declarative service manifests into provision-ready configuration.

Usage:
  platformctl <command> [options] [MANIFEST_PATH]

Commands:
  validate
    Parse the manifest and validate it against the master schema.
  plan
    Run the full pipeline: validate, hydrate for the target environment,
    resolve every component's config, and check cross-component references.

Arguments:
  MANIFEST_PATH
    Path to a manifest file, or a directory containing service.yaml.

Options:
`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	flagSet := flag.NewFlagSet("platformctl", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageHeader)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the manifest file or directory.")
	fFlag := flagSet.String("f", "", "Path to the manifest file or directory (shorthand).")
	envFlag := flagSet.String("env", "", "Target environment for plan.")
	eFlag := flagSet.String("e", "", "Target environment for plan (shorthand).")
	platformFlag := flagSet.String("platform", "", "Path to a platform defaults override file (HCL).")
	registryURLFlag := flagSet.String("registry-url", "", "Base URL of a remote schema registry. Unset uses the built-in registry only.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for component resolution.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Deadline for the whole command. 0 disables.")
	outputFlag := flagSet.String("output", "yaml", "Plan output format. Options: 'yaml' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if len(args) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	command := args[0]
	if command == "-h" || command == "--help" || command == "help" {
		flagSet.Usage()
		return nil, true, nil
	}
	if command != "validate" && command != "plan" {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q: expected 'validate' or 'plan'", command)}
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "a manifest path is required"}
	}

	env := *envFlag
	if env == "" {
		env = *eFlag
	}

	// Enum-valued fields are validated by app.NewConfig below.
	config, err := app.NewConfig(app.Config{
		Command:      command,
		ManifestPath: path,
		Environment:  env,
		PlatformPath: *platformFlag,
		RegistryURL:  *registryURLFlag,
		Workers:      *workersFlag,
		Timeout:      timeoutDuration(*timeoutFlag),
		OutputFormat: strings.ToLower(*outputFlag),
		LogFormat:    strings.ToLower(*logFormatFlag),
		LogLevel:     strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command, "manifest", path)
	return config, false, nil
}

func timeoutDuration(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
