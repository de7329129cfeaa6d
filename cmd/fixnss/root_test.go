package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/fixnss/internal/cli"
	"github.com/stackvity/fixnss/internal/testutil"
	"github.com/stackvity/fixnss/pkg/converter"
)

// executeCommand is a helper function to execute cobra command and capture output
func executeCommand(root *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)
	root.SetOut(stdoutBuf)
	root.SetErr(stderrBuf)
	root.SetArgs(args)

	err = root.Execute()

	return stdoutBuf.String(), stderrBuf.String(), err
}

func TestRootCmd_NoArgsPrintsUsage(t *testing.T) {
	stdout, stderr, err := executeCommand(newRootCmd())

	require.NoError(t, err, "zero arguments is not an error")
	assert.Empty(t, stderr)
	assert.Equal(t, fmt.Sprintf("Usage: %s file1.nss [file2.nss [...]]\n", filepath.Base(os.Args[0])), stdout)
}

func TestRootCmd_ConvertsFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	b := filepath.Join(dir, "b.nss")
	testutil.CreateDummyFile(t, a, "Header\nRED\nMiddle\nFooter\n")
	testutil.CreateDummyFile(t, b, "CBQ\nx\n")

	stdout, _, err := executeCommand(newRootCmd(), a, b)
	require.NoError(t, err)

	assert.Equal(t, "Converting "+a+"\nConverting "+b+"\n", stdout)
	assert.Equal(t, "Header\nRED\nMiddle\nOff\nFooter\n", testutil.ReadFile(t, filepath.Join(dir, "a.new.nss")))
	assert.Equal(t, "CBQ\nx\nOff\n", testutil.ReadFile(t, filepath.Join(dir, "b.new.nss")))
	assert.Equal(t, "CBQ\nx\n", testutil.ReadFile(t, b))
}

func TestRootCmd_Overwrite(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.nss")
	testutil.CreateDummyFile(t, src, "FQ\nx\n")

	_, _, err := executeCommand(newRootCmd(), "-w", src)
	require.NoError(t, err)
	assert.Equal(t, "FQ\nx\nOff\n", testutil.ReadFile(t, src))
}

func TestRootCmd_FailureReturnsError(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.nss")
	testutil.CreateDummyFile(t, good, "RED\nx\n")

	stdout, _, err := executeCommand(newRootCmd(), filepath.Join(dir, "missing.nss"), good)

	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrConversionFailed)
	assert.Contains(t, stdout, "Converting "+good)
	assert.FileExists(t, filepath.Join(dir, "good.new.nss"))
}

func TestRootCmd_InvalidFlagValue(t *testing.T) {
	_, _, err := executeCommand(newRootCmd(), "--on-error", "retry", "a.nss")
	assert.ErrorIs(t, err, converter.ErrConfigValidation)
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand(newRootCmd(), "--no-such-flag", "a.nss")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCmdHelp_AllFlagsPresent(t *testing.T) {
	cmd := newRootCmd()
	stdout, stderr, err := executeCommand(cmd, "--help")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "fixnss file1.nss [file2.nss [...]]")

	check := func(f *pflag.Flag) {
		assert.Contains(t, stdout, "--"+f.Name, "Help output should contain flag --%s", f.Name)
		if f.Shorthand != "" {
			assert.Contains(t, stdout, "-"+f.Shorthand+",", "Help output should contain shorthand -%s", f.Shorthand)
		}
	}
	cmd.Flags().VisitAll(check)
	cmd.PersistentFlags().VisitAll(check)
}

func TestRootCmdVersion(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	version = "test-1.2.3"
	commit = "testcommit123"
	date = "2024-01-01T10:00:00Z"
	defer func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	}()

	stdout, stderr, err := executeCommand(newRootCmd(), "--version")

	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "fixnss version test-1.2.3 (commit: testcommit123, built: 2024-01-01T10:00:00Z)\n", stdout)
}
