package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// runIDKey is used to store the run id in context.
type runIDKey struct{}

// EnvPrefix is the prefix of environment variables read into the config.
// A double underscore separates nested keys: LEAPDOI_STYLE__FONT_NAME.
const EnvPrefix = "LEAPDOI_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names whose config key is not the snake_case of the flag.
// An empty key means the flag is not configuration.
var flagKeys = map[string]string{
	"config":        "",
	"addr":          "server.addr",
	"max-upload-mb": "server.max_upload_mb",
}

// findConfigFile searches upward from startDir for leapdoi.yaml or leapdoi.yml.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigFile(startDir string) string {
	root := intconfig.FindProjectRoot(startDir, maxUpwardSearchLevels)
	if root == "" {
		return ""
	}
	return intconfig.FindConfigFile(root)
}

// defaultValues flattens the defaults into koanf keys.
func defaultValues() map[string]interface{} {
	d := Default()
	st := d.Style
	return map[string]interface{}{
		"data_sheet":                d.DataSheet,
		"tract_list_sheet":          d.TractListSheet,
		"header_scan_rows":          d.HeaderScanRows,
		"max_rows":                  d.MaxRows,
		"numeric_policy":            string(d.NumericPolicy),
		"nri_basis":                 d.NRIBasis,
		"tolerance":                 d.Tolerance,
		"style.font_name":           st.FontName,
		"style.font_size":           st.FontSize,
		"style.header_fill":         st.HeaderFill,
		"style.info_fill":           st.InfoFill,
		"style.nri_decimals":        st.NRIDecimals,
		"style.acre_decimals":       st.AcreDecimals,
		"style.gross_acre_decimals": st.GrossAcreDecimals,
		"style.landscape":           st.Landscape,
		"style.fit_to_width":        st.FitToWidth,
		"style.margins.left":        st.Margins.Left,
		"style.margins.right":       st.Margins.Right,
		"style.margins.top":         st.Margins.Top,
		"style.margins.bottom":      st.Margins.Bottom,
		"style.footer":              st.Footer,
		"output_dir":                d.OutputDir,
		"verbose":                   false,
		"output":                    d.OutputFormat,
		"server.addr":               d.Server.Addr,
		"server.max_upload_mb":      d.Server.MaxUploadMB,
		"server.shutdown_timeout":   d.Server.ShutdownTimeout,
		"history.enabled":           d.History.Enabled,
		"history.path":              d.History.Path,
	}
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = findConfigFile(cwd)
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Load environment variables (LEAPDOI_ prefix)
	// Transform: LEAPDOI_STYLE__FONT_NAME -> style.font_name
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, mapped := flagKeys[f.Name]
			if !mapped {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if key == "" {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
			Squash:           true,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	intconfig.ApplyDefaults(&cfg.Settings)

	if err := cfg.Validate(); err != nil {
		if configFileUsed != "" {
			return nil, fmt.Errorf("invalid configuration (%s): %w", configFileUsed, err)
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithRunID stores the run id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// GetRunID returns the run id stored in ctx, or "".
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
