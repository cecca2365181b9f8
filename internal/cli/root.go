// Package cli provides the command-line interface for colorbot.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Fifi-Huo/UI-Color-Bot/internal/config"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/logging"
	"github.com/Fifi-Huo/UI-Color-Bot/internal/version"
)

var (
	// Global flags
	globalVerbose  bool
	globalQuiet    bool
	globalLogLevel string
	globalLogJSON  bool
	globalEnvFiles []string

	// Populated by setup before any subcommand runs.
	cfg    = config.Defaults()
	logger = logging.Discard()

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "colorbot",
		Short: "Colour tooling for UI design",
		Long: `colorbot extracts dominant colours from images, generates harmonious
palettes, checks WCAG contrast and colour-blind legibility, and answers UI
colour questions through a Gemini-backed design assistant.

Every feature is available both from the command line and over HTTP via
'colorbot serve'.`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	versionJSON bool

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionJSON {
				return writeJSON(cmd.OutOrStdout(), version.GetInfo())
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&globalLogJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringSliceVar(&globalEnvFiles, "env-file", nil, "dotenv file(s) to load (default .env)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(contrastCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	cfg = config.Load(globalEnvFiles...)

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = globalLogLevel
	}
	if globalVerbose {
		level = hclog.Debug.String()
	}

	logger = logging.New(logging.Options{
		Name:   "colorbot",
		Level:  level,
		JSON:   globalLogJSON || cfg.LogJSON,
		Quiet:  globalQuiet,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// verbosef prints progress to stderr when --verbose is set.
func verbosef(cmd *cobra.Command, format string, args ...any) {
	if globalVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
