package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"rdatasets/internal/config"
	"rdatasets/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	indexURL   string
	plain      bool
	verbose    bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rdata",
	Short: "Search and browse the Rdatasets collection",
	Long: `rdata filters the Rdatasets index by column types and size, then lets you
page through the matches, read their documentation and download CSV files.

Run "rdata info" for the filter syntax.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if indexURL != "" {
			cfg.Index.URL = indexURL
		}
		if plain {
			cfg.UI.Plain = true
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		dir := cfg.Logging.Dir
		if dir == "" {
			dir = logging.DefaultDir()
		}
		if err := logging.Initialize(logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Dir:        dir,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.Format == "json",
			Categories: cfg.Logging.Categories,
		}); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		if logging.IsDebugMode() {
			logging.Boot("rdata %s run %s (config %s, logs %s)", cmd.Name(), logging.RunID(), configPath, dir)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&indexURL, "index-url", "", "Dataset index URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Use the line-oriented browser even on a terminal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	havingCmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore and clear the cached index")

	rootCmd.AddCommand(havingCmd)
	rootCmd.AddCommand(infoCmd)
}

// unexpectedError marks failures other than bad user input.
type unexpectedError struct{ err error }

func (e unexpectedError) Error() string { return e.err.Error() }
func (e unexpectedError) Unwrap() error { return e.err }

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// reportError prints err the way the process reports failures.
func reportError(w io.Writer, err error) {
	var ue unexpectedError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "Unexpected error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// run executes the root command and returns the process exit code. Loggers
// are closed on every path, including failed commands.
func run(stderr io.Writer) int {
	defer logging.CloseAll()

	if err := rootCmd.Execute(); err != nil {
		logging.Boot("command failed: %v", err)
		reportError(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Stderr))
}
