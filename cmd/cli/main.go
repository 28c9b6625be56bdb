package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/platformctl/internal/app"
	"github.com/vk/platformctl/internal/cli"
	"github.com/vk/platformctl/internal/pipeline"
)

// main is the entrypoint for the platformctl application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Validation failures map to exit code 2 so scripts can tell a bad
// manifest apart from an infrastructure problem.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, outW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors, so we recover here to
	// surface a clean error instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	platformApp := app.NewApp(outW, errW, appConfig)
	defer platformApp.Close()

	if runErr := platformApp.Run(context.Background(), appConfig); runErr != nil {
		if pipeline.IsValidationFailure(runErr) {
			return &cli.ExitError{Code: 2, Message: runErr.Error()}
		}
		return runErr
	}
	return nil
}
