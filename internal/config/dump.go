// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type (
	// Format selects the output of Dump.
	Format string

	fileDoc struct {
		Port            int       `toml:"port,omitempty"`
		Enable          []string  `toml:"enable,omitempty"`
		Default         string    `toml:"default,omitempty"`
		Color           bool      `toml:"color"`
		LogLevel        string    `toml:"log_level"`
		ShutdownTimeout string    `toml:"shutdown_timeout"`
		Admin           *adminDoc `toml:"admin,omitempty"`
	}

	adminDoc struct {
		Port        int    `toml:"port,omitempty"`
		Host        string `toml:"host,omitempty"`
		Token       string `toml:"token,omitempty"`
		HostKeyPath string `toml:"host_key_path,omitempty"`
	}
)

const (
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCUE, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want cue or toml)", ErrConfiguration, s)
	}
}

// Dump renders cfg as a config file that Load accepts. The admin token is
// written only when reveal is set.
func Dump(cfg *Config, f Format, reveal bool) (string, error) {
	doc := toDoc(cfg, reveal)
	switch f {
	case FormatTOML:
		out, err := toml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("encoding toml: %w", err)
		}
		return string(out), nil
	case FormatCUE:
		return generateCUE(doc), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrConfiguration, f)
	}
}

func toDoc(cfg *Config, reveal bool) fileDoc {
	doc := fileDoc{
		Port:            int(cfg.Port),
		Default:         cfg.Default,
		Color:           cfg.Color,
		LogLevel:        cfg.LogLevel.String(),
		ShutdownTimeout: cfg.ShutdownTimeout.String(),
	}
	for _, s := range cfg.Enable {
		doc.Enable = append(doc.Enable, s.String())
	}
	if cfg.Admin.Port.IsSet() || cfg.Admin.HostKeyPath != "" {
		doc.Admin = &adminDoc{
			Port:        int(cfg.Admin.Port),
			Host:        cfg.Admin.Host,
			HostKeyPath: cfg.Admin.HostKeyPath,
		}
		if reveal {
			doc.Admin.Token = cfg.Admin.Token
		}
	}
	return doc
}

func generateCUE(doc fileDoc) string {
	var sb strings.Builder
	sb.WriteString("// modserver configuration\n\n")

	if doc.Port != 0 {
		fmt.Fprintf(&sb, "port: %d\n", doc.Port)
	}
	if len(doc.Enable) > 0 {
		sb.WriteString("enable: [\n")
		for _, e := range doc.Enable {
			fmt.Fprintf(&sb, "\t%q,\n", e)
		}
		sb.WriteString("]\n")
	}
	if doc.Default != "" {
		fmt.Fprintf(&sb, "default: %q\n", doc.Default)
	}
	fmt.Fprintf(&sb, "color: %v\n", doc.Color)
	fmt.Fprintf(&sb, "log_level: %q\n", doc.LogLevel)
	fmt.Fprintf(&sb, "shutdown_timeout: %q\n", doc.ShutdownTimeout)

	if a := doc.Admin; a != nil {
		sb.WriteString("\nadmin: {\n")
		if a.Port != 0 {
			fmt.Fprintf(&sb, "\tport: %d\n", a.Port)
		}
		if a.Host != "" {
			fmt.Fprintf(&sb, "\thost: %q\n", a.Host)
		}
		if a.Token != "" {
			fmt.Fprintf(&sb, "\ttoken: %q\n", a.Token)
		}
		if a.HostKeyPath != "" {
			fmt.Fprintf(&sb, "\thost_key_path: %q\n", a.HostKeyPath)
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
