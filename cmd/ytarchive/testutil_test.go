package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// resetGlobals restores the persistent flag variables after a test.
func resetGlobals(t *testing.T) {
	t.Helper()
	saved := struct {
		configPath, envFile, logLevel string
		quiet                         bool
	}{configPath, envFile, logLevel, quiet}

	t.Cleanup(func() {
		configPath = saved.configPath
		envFile = saved.envFile
		logLevel = saved.logLevel
		quiet = saved.quiet
	})
}

// newRunTestCmd returns a fresh command carrying the run flags.
func newRunTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

// captureOutput points cmd's stdout at a buffer.
func captureOutput(cmd *cobra.Command) *bytes.Buffer {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return &buf
}
