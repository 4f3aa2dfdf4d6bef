// Package config resolves settings for the command-line tools from flags,
// SGMLPREP_* environment variables and an optional sgmlprep.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	sgmlprep "github.com/jamesainslie/go-sgmlprep"
)

// EnvPrefix is the prefix of environment overrides, e.g. SGMLPREP_MODEL_DIR.
const EnvPrefix = "SGMLPREP"

// DefaultThreshold mirrors sat.DefaultThreshold. Importing package sat here
// would link onnxruntime into tools that never load a model.
const DefaultThreshold float32 = 0.025

// Keys shared by flags, environment variables and the config file.
const (
	KeyConfig       = "config"
	KeyLogLevel     = "log-level"
	KeyLogFormat    = "log-format"
	KeyCharset      = "charset"
	KeyMaxLineBytes = "max-line-bytes"
	KeyMarker       = "marker"
	KeyMaxTokens    = "max-tokens"
	KeyBackend      = "backend"
	KeyModelDir     = "model-dir"
	KeyThreshold    = "threshold"
	KeyONNXLibrary  = "onnx-library"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel     string  `mapstructure:"log-level"`
	LogFormat    string  `mapstructure:"log-format"`
	Charset      string  `mapstructure:"charset"`
	MaxLineBytes int     `mapstructure:"max-line-bytes"`
	Marker       string  `mapstructure:"marker"`
	MaxTokens    int     `mapstructure:"max-tokens"`
	Backend      string  `mapstructure:"backend"`
	ModelDir     string  `mapstructure:"model-dir"`
	Threshold    float32 `mapstructure:"threshold"`
	ONNXLibrary  string  `mapstructure:"onnx-library"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyCharset, "utf-8")
	v.SetDefault(KeyMaxLineBytes, sgmlprep.DefaultMaxLineBytes)
	v.SetDefault(KeyMarker, sgmlprep.DefaultMarker)
	v.SetDefault(KeyMaxTokens, sgmlprep.DefaultMaxTokens)
	v.SetDefault(KeyBackend, "sat")
	v.SetDefault(KeyModelDir, "")
	v.SetDefault(KeyThreshold, DefaultThreshold)
	v.SetDefault(KeyONNXLibrary, "")
}

// AddCommonFlags registers the flags every tool accepts.
func AddCommonFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "config file (default: sgmlprep.yaml in ~/.config/sgmlprep or .)")
	fs.String(KeyLogLevel, "warn", "log level: debug, info, warn, error")
	fs.String(KeyLogFormat, "text", "log format: text, json")
	fs.String(KeyCharset, "utf-8", "input character encoding")
	fs.Int(KeyMaxLineBytes, sgmlprep.DefaultMaxLineBytes, "longest accepted input line in bytes")
	fs.String(KeyMarker, sgmlprep.DefaultMarker, "prefix identifying markup lines")
}

// AddModelFlags registers the flags selecting and configuring a sentence model.
func AddModelFlags(fs *pflag.FlagSet) {
	fs.String(KeyBackend, "sat", "sentence model: sat, punkt, rules")
	fs.String(KeyModelDir, "", "model directory (default: model/ next to the executable)")
	fs.Float32(KeyThreshold, DefaultThreshold, "SaT boundary probability threshold")
	fs.String(KeyONNXLibrary, "", "path to the onnxruntime shared library")
}

// Load resolves the configuration. Flags that were set win over environment
// variables, which win over the config file, which wins over defaults.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.ModelDir = expandTilde(c.ModelDir)
	return &c, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(expandTilde(path))
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("sgmlprep")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "sgmlprep"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
