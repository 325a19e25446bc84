package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/lnkkit/pkg/types"
)

var (
	// Global flags
	verbose        bool
	quiet          bool
	outputFormat   string
	codepageName   string
	maxExtraBlocks int
	configFile     string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "lnkinfo <file>",
	Short: "Decode Windows Shortcut (.lnk) files",
	Long: `lnkinfo decodes Windows Shortcut (.lnk) files for forensic review.
It reports the header, target ID list, link info, string data and extra
data blocks of a shortcut without trusting any size or offset it contains.

Example:
  lnkinfo report.lnk
  lnkinfo report.lnk --output json
  lnkinfo -v report.lnk`,
	Args:              cobra.ExactArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and the offsets read table")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&codepageName, "codepage", types.DefaultCodepage.String(), "Code page for 8-bit strings")
	rootCmd.PersistentFlags().IntVar(&maxExtraBlocks, "max-extra-blocks", types.DefaultMaxExtraBlocks, "Maximum extra data blocks per file")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: lnkinfo.yaml in ., $HOME/.lnkinfo, /etc/lnkinfo)")
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(cmd.Flags()); err != nil {
		return err
	}
	l, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger = l
	return nil
}

func execute() {
	defer logger.Sync() //nolint:errcheck
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// decodeOptions builds decoder options from the flags and config.
func decodeOptions() (types.Options, error) {
	cp, err := types.ParseCodepage(codepageName)
	if err != nil {
		return types.Options{}, err
	}
	if maxExtraBlocks < 0 {
		return types.Options{}, fmt.Errorf("max-extra-blocks must not be negative, got %d", maxExtraBlocks)
	}
	return types.Options{
		Codepage:       cp,
		MaxExtraBlocks: maxExtraBlocks,
		Logger:         logger,
	}, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printYAML outputs data as YAML
func printYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// printStructured writes v in the selected machine-readable format. It
// reports false for text output.
func printStructured(v interface{}) (bool, error) {
	switch outputFormat {
	case "json":
		return true, printJSON(v)
	case "yaml":
		return true, printYAML(v)
	case "text", "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}
}
