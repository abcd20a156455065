// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/modserver/modserver/internal/issue"
	"github.com/modserver/modserver/pkg/cueutil"
	"github.com/modserver/modserver/pkg/types"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "MODSERVER"

// ErrConfiguration is wrapped by every invalid-setting error.
var ErrConfiguration = errors.New("configuration error")

//go:embed config_schema.cue
var configSchema []byte

// optionKeys maps positional option keys to configuration keys.
var optionKeys = map[string]string{
	"port":        keyPort,
	"enable":      keyEnable,
	"default":     keyDefault,
	"admin-port":  keyAdminPort,
	"admin-token": keyAdminToken,
	"log-level":   keyLogLevel,
}

const (
	keyPort            = "port"
	keyEnable          = "enable"
	keyDefault         = "default"
	keyColor           = "color"
	keyLogLevel        = "log_level"
	keyShutdownTimeout = "shutdown_timeout"
	keyAdminPort       = "admin.port"
	keyAdminHost       = "admin.host"
	keyAdminToken      = "admin.token"
	keyAdminHostKey    = "admin.host_key_path"
)

type (
	// Config is the effective host configuration.
	Config struct {
		Port            types.ListenPort
		Enable          []MountSpec
		Default         string
		Color           bool
		LogLevel        log.Level
		ShutdownTimeout time.Duration
		Admin           AdminConfig

		// Source is the config file that was read, if any.
		Source string
		// Warnings lists ignored or malformed input that did not stop loading.
		Warnings []string
	}

	// AdminConfig configures the optional SSH admin console.
	AdminConfig struct {
		Port        types.ListenPort
		Host        string
		Token       string
		HostKeyPath string
	}

	// LoadOptions carries the inputs that do not come from files or the
	// environment.
	LoadOptions struct {
		// ConfigFilePath is the --config flag.
		ConfigFilePath string
		// Options are positional key=value pairs, keyed as typed.
		Options map[string]string
		// OptionKeys preserves the order Options were given in.
		OptionKeys []string
		// Flags are positional arguments without '='.
		Flags []string
		// Color is set when --color was passed.
		Color bool
		// LogLevel is the --log-level flag; empty when not passed.
		LogLevel string
		// Verbose forces debug logging.
		Verbose bool
	}
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		LogLevel:        log.InfoLevel,
		ShutdownTimeout: 5 * time.Second,
		Admin:           AdminConfig{Host: "127.0.0.1"},
	}
}

// Load builds the configuration and validates it. HTTP port presence is
// not checked here; see RequirePort.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	def := Defaults()
	v.SetDefault(keyPort, 0)
	v.SetDefault(keyEnable, "")
	v.SetDefault(keyDefault, "")
	v.SetDefault(keyColor, false)
	v.SetDefault(keyLogLevel, def.LogLevel.String())
	v.SetDefault(keyShutdownTimeout, def.ShutdownTimeout.String())
	v.SetDefault(keyAdminPort, 0)
	v.SetDefault(keyAdminHost, def.Admin.Host)
	v.SetDefault(keyAdminToken, "")
	v.SetDefault(keyAdminHostKey, "")

	if opts.ConfigFilePath != "" {
		if err := readFile(v, opts.ConfigFilePath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file exists and matches the schema").
				WithSuggestion("Run 'modserver config dump' to see a valid file").
				Wrap(err).
				BuildError()
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Color {
		v.Set(keyColor, true)
	}
	if opts.LogLevel != "" {
		v.Set(keyLogLevel, opts.LogLevel)
	}

	var warnings []string
	for _, k := range orderedKeys(opts) {
		key, ok := optionKeys[k]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("ignoring unknown option %q", k))
			continue
		}
		v.Set(key, opts.Options[k])
	}
	for _, f := range opts.Flags {
		warnings = append(warnings, fmt.Sprintf("ignoring unknown argument %q", f))
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.LogLevel = log.DebugLevel
	}
	cfg.Source = opts.ConfigFilePath
	cfg.Warnings = append(warnings, cfg.Warnings...)
	return cfg, nil
}

// RequirePort fails unless an HTTP port is configured.
func (c *Config) RequirePort() error {
	if c.Port.IsSet() {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("start server").
		WithIssue(issue.PortMissingId).
		WithSuggestion("Pass port=<1-65535>, e.g. 'modserver port=8080'").
		Wrap(fmt.Errorf("%w: port is required", ErrConfiguration)).
		BuildError()
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Default: strings.TrimSpace(v.GetString(keyDefault)),
		Color:   v.GetBool(keyColor),
		Admin: AdminConfig{
			Host:        v.GetString(keyAdminHost),
			Token:       v.GetString(keyAdminToken),
			HostKeyPath: v.GetString(keyAdminHostKey),
		},
	}

	var err error
	if cfg.Port, err = parsePort(keyPort, v.GetString(keyPort)); err != nil {
		return nil, err
	}
	if cfg.Admin.Port, err = parsePort(keyAdminPort, v.GetString(keyAdminPort)); err != nil {
		return nil, err
	}

	lvl, err := log.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return nil, invalid(keyLogLevel, err, "Use one of debug, info, warn, error")
	}
	cfg.LogLevel = lvl

	cfg.ShutdownTimeout, err = time.ParseDuration(v.GetString(keyShutdownTimeout))
	if err != nil || cfg.ShutdownTimeout < 0 {
		return nil, invalid(keyShutdownTimeout, fmt.Errorf("invalid duration %q", v.GetString(keyShutdownTimeout)), "Use a Go duration such as 5s")
	}

	specs, bad := ParseEnableList(enableEntries(v.Get(keyEnable)))
	cfg.Enable = specs
	for _, b := range bad {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring malformed enable entry %q (want name:path)", b))
	}

	if cfg.Admin.Port.IsSet() && cfg.Admin.Token == "" {
		return nil, issue.NewErrorContext().
			WithOperation("configure admin console").
			WithIssue(issue.AdminTokenMissingId).
			WithSuggestion("Pass admin-token=<secret> together with admin-port").
			Wrap(fmt.Errorf("%w: admin-token is required when admin-port is set", ErrConfiguration)).
			BuildError()
	}

	return cfg, nil
}

func parsePort(key, raw string) (types.ListenPort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	p, err := types.ParseListenPort(raw)
	if err != nil {
		return 0, issue.NewErrorContext().
			WithOperation("configure " + key).
			WithIssue(issue.PortInvalidId).
			WithSuggestion("Ports are whole numbers between 1 and 65535").
			Wrap(fmt.Errorf("%w: %w", ErrConfiguration, err)).
			BuildError()
	}
	return p, nil
}

func invalid(key string, err error, suggestion string) error {
	return issue.NewErrorContext().
		WithOperation("configure " + key).
		WithSuggestion(suggestion).
		Wrap(fmt.Errorf("%w: %w", ErrConfiguration, err)).
		BuildError()
}

// enableEntries accepts the comma-joined string form and the list form.
func enableEntries(raw any) []string {
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		return strings.Split(val, ",")
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return strings.Split(fmt.Sprint(val), ",")
	}
}

func orderedKeys(opts LoadOptions) []string {
	if len(opts.OptionKeys) > 0 {
		return opts.OptionKeys
	}
	keys := make([]string, 0, len(opts.Options))
	for k := range opts.Options {
		keys = append(keys, k)
	}
	return keys
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return readCUE(v, path)
	}
	v.SetConfigFile(path)
	return v.ReadInConfig()
}

func readCUE(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := cueutil.Decode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}
	return v.MergeConfigMap(m)
}
