package main

import (
	"os"
	"strings"

	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/config"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/configpaths"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/gen"
	"github.com/duje-begonja-rdx/radixdlt-scrypto/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("bindgen"),
		kong.Description("Regenerates strongly-typed stubs for the native packages of the ledger simulator"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)

	if err := ctx.Run(); err != nil {
		logger.Error("bindgen failed", "error", err)
		for _, c := range closeFiles {
			_ = c.Close()
		}
		os.Exit(gen.ExitCode(err))
	}
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("BINDGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
