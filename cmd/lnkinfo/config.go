package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joshuapare/lnkkit/pkg/types"
)

// configKeys maps config keys to the flags that override them.
var configKeys = map[string]string{
	"output":           "output",
	"codepage":         "codepage",
	"max_extra_blocks": "max-extra-blocks",
	"catalog_dir":      "catalog",
	"workers":          "workers",
}

// loadConfig reads lnkinfo.yaml and LNKINFO_* variables, then writes the
// merged values back into the flag variables. Flags set on the command line
// win over both.
func loadConfig(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("lnkinfo")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lnkinfo")
		v.AddConfigPath("/etc/lnkinfo")
	}

	v.SetDefault("output", "text")
	v.SetDefault("codepage", types.DefaultCodepage.String())
	v.SetDefault("max_extra_blocks", types.DefaultMaxExtraBlocks)

	v.SetEnvPrefix("LNKINFO")
	v.AutomaticEnv()

	for key, name := range configKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	outputFormat = v.GetString("output")
	codepageName = v.GetString("codepage")
	maxExtraBlocks = v.GetInt("max_extra_blocks")
	if flags.Lookup("catalog") != nil {
		catalogDir = v.GetString("catalog_dir")
	}
	if flags.Lookup("workers") != nil {
		scanWorkers = v.GetInt("workers")
	}
	return nil
}

// newLogger returns a development logger when verbose is set and a
// warn-level production logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}
