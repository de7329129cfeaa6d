package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stackvity/fixnss/pkg/converter"
	"github.com/stackvity/fixnss/pkg/converter/encoding"
)

const (
	EnvPrefix         = "FIXNSS"
	DefaultConfigName = "fixnss"
)

// logOutput is where the configured logger writes. Tests swap it out.
var logOutput io.Writer = os.Stderr

// flagKeys maps command-line flag names to their Viper configuration keys.
var flagKeys = map[string]string{
	"overwrite":        "overwrite",
	"on-error":         "onError",
	"encoding":         "encoding",
	"default-encoding": "defaultEncoding",
	"dry-run":          "dryRun",
	"diff":             "diff",
	"recursive":        "recursive",
	"ignore":           "ignore",
	"output-format":    "outputFormat",
	"progress":         "progress",
	"verbose":          "verbose",
}

// LoadAndValidate loads configuration from all sources (defaults, file, profile, env, flags),
// validates the merged configuration, sets up the logger and injects default dependencies.
// Returns the populated Options struct or an error.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, flags *pflag.FlagSet) (converter.Options, *slog.Logger, error) {
	var opts converter.Options
	v := viper.New()

	// Temporary logger for errors raised before the level is known
	tempLogger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		} else {
			tempLogger.Debug("No home directory, searching only the working directory", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml/json/toml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("%w: error reading config file '%s': %w", converter.ErrConfigValidation, configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// --- Apply Profile ---
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("%w: profile '%s' not found in config file '%s'", converter.ErrConfigValidation, profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", flagName))
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		}
	}

	// --- Unmarshal Final Configuration ---
	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("%w: error unmarshalling configuration: %w", converter.ErrConfigValidation, err)
	}
	opts.AppVersion = appVersion

	// The persistent --verbose flag is parsed by cobra before binding; it always wins when set.
	if verbose {
		opts.Verbose = true
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)
	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	// --- Conversion Behavior ---
	v.SetDefault("overwrite", converter.DefaultOverwrite)
	v.SetDefault("onError", string(converter.DefaultOnErrorMode))
	v.SetDefault("encoding", string(converter.DefaultEncodingMode))
	v.SetDefault("defaultEncoding", "")
	v.SetDefault("dryRun", converter.DefaultDryRun)

	// --- Input Expansion ---
	v.SetDefault("recursive", converter.DefaultRecursive)
	v.SetDefault("ignore", []string{})

	// --- Output & Presentation ---
	v.SetDefault("diff", converter.DefaultDiff)
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))
	v.SetDefault("progress", converter.DefaultProgressEnabled)
	v.SetDefault("verbose", converter.DefaultVerbose)
}

// validateAndDeriveOptions performs semantic validation on the populated Options struct,
// injects default dependencies and calculates derived fields.
// It wraps errors with converter.ErrConfigValidation.
func validateAndDeriveOptions(opts *converter.Options, logger *slog.Logger) error {
	// === Enum String Validations ===
	if err := converter.ValidateOptions(opts); err != nil {
		logger.Error(err.Error())
		return err
	}
	if err := converter.ValidateIgnorePatterns(opts.IgnorePatterns); err != nil {
		logger.Error(err.Error(), slog.String("key", "ignore"))
		return err
	}

	// === Encoding ===
	if opts.DefaultEncoding != "" {
		if opts.EncodingMode != converter.EncodingAuto {
			logger.Warn("defaultEncoding only applies with encoding=auto; ignoring",
				slog.String("defaultEncoding", opts.DefaultEncoding),
				slog.String("encoding", string(opts.EncodingMode)))
		} else if !encoding.IsKnownEncoding(opts.DefaultEncoding) {
			err := fmt.Errorf("%w: unknown value '%s' for key 'defaultEncoding' (flag --default-encoding)", converter.ErrConfigValidation, opts.DefaultEncoding)
			logger.Error(err.Error(), slog.String("key", "defaultEncoding"))
			return err
		}
	}

	// === Inject Default Dependencies (if nil) ===
	if opts.Logger == nil {
		return fmt.Errorf("internal setup error: logger handler is nil in validateAndDeriveOptions")
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &converter.NoOpHooks{}
	}
	if opts.EncodingHandler == nil {
		opts.EncodingHandler = encoding.NewGoCharsetEncodingHandler(opts.DefaultEncoding)
		logger.Debug("EncodingHandler not provided, using default (GoCharsetEncodingHandler).")
	}

	// === Derive other options ===
	if opts.ShowDiff {
		opts.CaptureContent = true
	}
	if opts.Overwrite && opts.DryRun {
		logger.Debug("Dry run enabled, overwrite has no effect on disk")
	}

	logger.Debug("Final derived settings validated",
		slog.Bool("overwrite", opts.Overwrite),
		slog.String("onError", string(opts.OnErrorMode)),
		slog.String("encoding", string(opts.EncodingMode)),
		slog.Bool("dryRun", opts.DryRun),
		slog.Bool("recursive", opts.Recursive),
		slog.Int("ignorePatterns", len(opts.IgnorePatterns)),
	)
	return nil
}
