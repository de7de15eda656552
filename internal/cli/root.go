package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/spool/internal/config"
	spoolerrors "github.com/tessro/spool/internal/errors"
	"github.com/tessro/spool/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg       *config.Config
	logCloser io.Closer
)

// ownsTerminal marks commands that draw to the terminal themselves. Console
// logging is discarded for them unless log.file is set.
const ownsTerminal = "owns-terminal"

var rootCmd = &cobra.Command{
	Use:   "spool",
	Short: "Play local audio files from the terminal",
	Long: `Spool plays audio files you add to an in-memory playlist.

Run 'spool ui' for the interactive player or 'spool listen' to play
headless and print playback events.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogging(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.spoolrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", spoolerrors.ErrInvalidConfig, err)
	}

	return nil
}

func initLogging(cmd *cobra.Command) error {
	var console io.Writer = os.Stderr
	if _, ok := cmd.Annotations[ownsTerminal]; ok {
		console = io.Discard
	}

	closer, err := logging.Setup(cfg.Log, console, verbose)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, spoolerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
