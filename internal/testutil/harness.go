// Package testutil provides the shared integration test harness: temp-dir
// manifest fixtures, a thread-safe log buffer, and a one-call pipeline run.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/platformctl/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
	App       *app.App
}

// WriteManifest writes manifest YAML into a fresh temp dir and returns the
// file's path. The directory is removed when the test finishes.
func WriteManifest(t *testing.T, manifestYAML string) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", ".tmp-platformctl-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestYAML), 0644))
	return path
}

// RunCommand provides a standardized harness for running integration tests
// using a default background context.
func RunCommand(t *testing.T, cfg app.Config, manifestYAML string) *HarnessResult {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, cfg, manifestYAML)
}

// RunCommandWithContext writes the manifest to a temp dir, builds an App
// around it, and runs the requested command with the caller's context. Zero
// values in cfg get the same defaults the CLI applies.
func RunCommandWithContext(ctx context.Context, t *testing.T, cfg app.Config, manifestYAML string) *HarnessResult {
	t.Helper()

	cfg.ManifestPath = WriteManifest(t, manifestYAML)
	if cfg.Command == "" {
		cfg.Command = "plan"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	var stdout bytes.Buffer
	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(&stdout, logBuffer, appConfig)
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}
	t.Cleanup(func() { testApp.Close() })

	runErr := testApp.Run(ctx, appConfig)

	if os.Getenv("PLATFORMCTL_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Stdout:    stdout.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
	}
}
