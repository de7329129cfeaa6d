package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stackvity/fixnss/internal/cli"
	"github.com/stackvity/fixnss/internal/cli/config"
	"github.com/stackvity/fixnss/pkg/converter"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// programName is the name printed in the usage line.
func programName() string {
	return filepath.Base(os.Args[0])
}

// newRootCmd builds the root command. Each call returns an independent
// command with its own flag set.
func newRootCmd() *cobra.Command {
	var (
		cfgFile     string
		profileName string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "fixnss file1.nss [file2.nss [...]]",
		Short: "Converts legacy .nss simulation files to the current format.",
		Long: `fixnss migrates .nss network-simulation files written for older
releases. After each queue declaration (DropTail, RED, CBQ, FQ, SFQ, DRR)
the current format expects an "Off" line; fixnss inserts it after the line
that follows the declaration and copies everything else unchanged.

Each input file is written to a sibling file with ".nss" replaced by
".new.nss" unless --overwrite is given.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Usage: %s file1.nss [file2.nss [...]]\n", programName())
				return nil
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, cmd.Flags())
			if err != nil {
				return err
			}
			return cli.Run(ctx, args, opts, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")

	// Persistent flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/fixnss/)")
	cmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", converter.DefaultVerbose, "Enable verbose (debug) logging output")

	// --- Conversion Behavior ---
	cmd.Flags().BoolP("overwrite", "w", converter.DefaultOverwrite, "Replace each source file instead of writing *.new.nss")
	cmd.Flags().String("on-error", string(converter.DefaultOnErrorMode), "Behavior when a file fails: 'continue' or 'stop'")
	cmd.Flags().String("encoding", string(converter.DefaultEncodingMode), "Input encoding handling: 'raw', 'strict' (UTF-8 only) or 'auto' (detect)")
	cmd.Flags().String("default-encoding", "", "Fallback charset for --encoding=auto when detection is uncertain (e.g. windows-1252)")
	cmd.Flags().BoolP("dry-run", "n", converter.DefaultDryRun, "Convert in memory without writing any file")

	// --- Input Expansion ---
	cmd.Flags().BoolP("recursive", "r", converter.DefaultRecursive, "Treat directory arguments as trees of .nss files")
	cmd.Flags().StringSlice("ignore", []string{}, "Glob patterns to skip during recursive expansion (repeatable)")

	// --- Output & Presentation ---
	cmd.Flags().Bool("diff", converter.DefaultDiff, "Show the inserted lines for each converted file")
	cmd.Flags().String("output-format", string(converter.DefaultOutputFormat), "Final report format: 'text' or 'json'")
	cmd.Flags().Bool("progress", converter.DefaultProgressEnabled, "Show a progress bar on stderr when it is a terminal")

	return cmd
}

// Execute runs the root command and exits non-zero when it fails.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}
