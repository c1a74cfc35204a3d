// Package config defines the top-level CLI structure parsed by kong.
package config

import "github.com/duje-begonja-rdx/radixdlt-scrypto/internal/cmd"

// LogConfig holds the logging flags shared by every command.
type LogConfig struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"BINDGEN_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of the console" env:"BINDGEN_LOG_FILE"`
}

// CLI is the root command grammar. Values come from flags, environment
// variables and layered JSON/YAML/TOML configuration files, in that priority.
type CLI struct {
	ConfigPath string    `name:"config" help:"Path to a configuration file" env:"BINDGEN_CONFIG"`
	Log        LogConfig `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Resolve package schemas and regenerate the stub file"`
	Inspect  cmd.Inspect       `cmd:"" help:"Print the decoded schema of one package as JSON"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
