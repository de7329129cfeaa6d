package converter_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackvity/fixnss/internal/testutil"
	"github.com/stackvity/fixnss/pkg/converter"
)

func TestConvertFiles_ContinueOnError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	missing := filepath.Join(dir, "missing.nss")
	c := filepath.Join(dir, "c.nss")
	testutil.CreateDummyFile(t, a, fixtureInput)
	testutil.CreateDummyFile(t, c, testutil.Lines("DRR", "x", "y"))

	report, err := converter.ConvertFiles(context.Background(), []string{a, missing, c}, converter.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Summary.TotalFiles)
	assert.Equal(t, 2, report.Summary.ProcessedCount)
	assert.Equal(t, 1, report.Summary.ErrorCount)
	assert.Equal(t, 2, report.Summary.InsertionCount)
	assert.False(t, report.Summary.FatalErrorOccurred)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, missing, report.Errors[0].Path)
	assert.False(t, report.Errors[0].IsFatal)

	assert.Equal(t, fixtureOutput, testutil.ReadFile(t, filepath.Join(dir, "a.new.nss")))
	assert.Equal(t, testutil.Lines("DRR", "x", "Off", "y"), testutil.ReadFile(t, filepath.Join(dir, "c.new.nss")))
}

func TestConvertFiles_StopOnError(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	missing := filepath.Join(dir, "missing.nss")
	c := filepath.Join(dir, "c.nss")
	testutil.CreateDummyFile(t, a, fixtureInput)
	testutil.CreateDummyFile(t, c, fixtureInput)

	opts := converter.DefaultOptions()
	opts.OnErrorMode = converter.OnErrorStop
	report, err := converter.ConvertFiles(context.Background(), []string{a, missing, c}, opts)

	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrNotFound)
	assert.True(t, report.Summary.FatalErrorOccurred)
	assert.Equal(t, 1, report.Summary.ProcessedCount)
	require.Len(t, report.Errors, 1)
	assert.True(t, report.Errors[0].IsFatal)
	assert.FileExists(t, filepath.Join(dir, "a.new.nss"))
	assert.NoFileExists(t, filepath.Join(dir, "c.new.nss"), "files after the failure are not touched")
}

func TestConvertFiles_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	testutil.CreateDummyFile(t, a, fixtureInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := converter.ConvertFiles(ctx, []string{a}, converter.DefaultOptions())

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Summary.FatalErrorOccurred)
	assert.Zero(t, report.Summary.ProcessedCount)
	assert.NoFileExists(t, filepath.Join(dir, "a.new.nss"))
}

func TestConvertFiles_FreshStatePerFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.nss")
	second := filepath.Join(dir, "second.nss")
	testutil.CreateDummyFile(t, first, testutil.Lines("x", "RED"))
	testutil.CreateDummyFile(t, second, testutil.Lines("a", "b"))

	report, err := converter.ConvertFiles(context.Background(), []string{first, second}, converter.DefaultOptions())
	require.NoError(t, err)

	assert.Zero(t, report.Summary.InsertionCount)
	assert.Equal(t, testutil.Lines("a", "b"), testutil.ReadFile(t, filepath.Join(dir, "second.new.nss")),
		"a flag at the end of one file must not leak into the next")
}

func TestConvertFiles_RecursiveReportsSkipped(t *testing.T) {
	root := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(root, "a.nss"), fixtureInput)

	opts := converter.DefaultOptions()
	opts.Recursive = true
	_, err := converter.ConvertFiles(context.Background(), []string{root}, opts)
	require.NoError(t, err)

	// Second run sees the generated file and skips it.
	report, err := converter.ConvertFiles(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.ProcessedCount)
	assert.Equal(t, 1, report.Summary.SkippedCount)
	assert.Equal(t, 2, report.Summary.TotalFiles)
	require.Len(t, report.SkippedFiles, 1)
	assert.Equal(t, converter.SkipReasonGenerated, report.SkippedFiles[0].Reason)
}

func TestConvertFiles_HookSequence(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	missing := filepath.Join(dir, "missing.nss")
	testutil.CreateDummyFile(t, a, fixtureInput)

	hooks := new(testutil.MockHooks)
	hooks.On("OnFileDiscovered", a).Return(nil).Once()
	hooks.On("OnFileDiscovered", missing).Return(assert.AnError).Once()
	hooks.On("OnFileStatusUpdate", a, converter.StatusProcessing, "", time.Duration(0)).Return(nil).Once()
	hooks.On("OnFileStatusUpdate", a, converter.StatusSuccess, mock.MatchedBy(func(msg string) bool {
		return msg == "1 insertion(s) -> "+filepath.Join(dir, "a.new.nss")
	}), mock.AnythingOfType("time.Duration")).Return(nil).Once()
	hooks.On("OnFileStatusUpdate", missing, converter.StatusProcessing, "", time.Duration(0)).Return(nil).Once()
	hooks.On("OnFileStatusUpdate", missing, converter.StatusFailed, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(assert.AnError).Once()
	hooks.On("OnRunComplete", mock.MatchedBy(func(r converter.Report) bool {
		return r.Summary.ProcessedCount == 1 && r.Summary.ErrorCount == 1
	})).Return(nil).Once()

	opts := converter.DefaultOptions()
	opts.EventHooks = hooks
	_, err := converter.ConvertFiles(context.Background(), []string{a, missing}, opts)

	require.NoError(t, err, "hook errors are logged, not propagated")
	hooks.AssertExpectations(t)
}

func TestEngine_RunTwiceReportsEachRun(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.nss")
	b := filepath.Join(dir, "b.nss")
	missing := filepath.Join(dir, "missing.nss")
	testutil.CreateDummyFile(t, a, fixtureInput)
	testutil.CreateDummyFile(t, b, fixtureInput)

	engine, err := converter.NewEngine(converter.DefaultOptions())
	require.NoError(t, err)

	first, err := engine.Run(context.Background(), []string{a, missing})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Summary.ProcessedCount)
	assert.Equal(t, 1, first.Summary.ErrorCount)

	second, err := engine.Run(context.Background(), []string{b})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.TotalFiles)
	assert.Equal(t, 1, second.Summary.ProcessedCount)
	assert.Equal(t, 1, second.Summary.InsertionCount)
	assert.Zero(t, second.Summary.ErrorCount)
	assert.Empty(t, second.Errors)
	require.Len(t, second.ProcessedFiles, 1)
	assert.Equal(t, b, second.ProcessedFiles[0].Path)

	assert.Len(t, first.ProcessedFiles, 1, "a later run leaves an earlier report alone")
}

func TestNewEngine_Validation(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		opts := converter.DefaultOptions()
		opts.Logger = nil
		_, err := converter.NewEngine(opts)
		assert.ErrorIs(t, err, converter.ErrConfigValidation)
	})

	t.Run("nil hooks uses default", func(t *testing.T) {
		opts := converter.DefaultOptions()
		opts.EventHooks = nil
		engine, err := converter.NewEngine(opts)
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("bad ignore pattern", func(t *testing.T) {
		opts := converter.DefaultOptions()
		opts.IgnorePatterns = []string{"["}
		_, err := converter.NewEngine(opts)
		assert.ErrorIs(t, err, converter.ErrConfigValidation)
	})
}

func TestValidateOptions(t *testing.T) {
	t.Run("empty enums get defaults", func(t *testing.T) {
		opts := converter.Options{}
		require.NoError(t, converter.ValidateOptions(&opts))
		assert.Equal(t, converter.DefaultOnErrorMode, opts.OnErrorMode)
		assert.Equal(t, converter.DefaultEncodingMode, opts.EncodingMode)
		assert.Equal(t, converter.DefaultOutputFormat, opts.OutputFormat)
	})

	invalid := map[string]func(*converter.Options){
		"on error":      func(o *converter.Options) { o.OnErrorMode = "retry" },
		"encoding":      func(o *converter.Options) { o.EncodingMode = "latin1" },
		"output format": func(o *converter.Options) { o.OutputFormat = "yaml" },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			opts := converter.DefaultOptions()
			mutate(&opts)
			assert.ErrorIs(t, converter.ValidateOptions(&opts), converter.ErrConfigValidation)
		})
	}
}

func TestEngine_LogsThroughInjectedHandler(t *testing.T) {
	var buf bytes.Buffer
	src := filepath.Join(t.TempDir(), "a.nss")
	testutil.CreateDummyFile(t, src, fixtureInput)

	opts := converter.DefaultOptions()
	opts.Logger = slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	_, err := converter.ConvertFiles(context.Background(), []string{src}, opts)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "component=engine")
	assert.Contains(t, buf.String(), "component=processor")
	assert.Contains(t, buf.String(), "insertions=1")
}
