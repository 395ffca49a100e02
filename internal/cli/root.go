// Package cli implements the command-line interface for cubetwist.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetwist/internal/config"
	"github.com/SeamusWaldron/cubetwist/internal/logging"
)

const version = "0.1.0"

// tuiAnnotation marks commands that take over the terminal; their logs only
// go to the log file.
const tuiAnnotation = "tui"

var (
	// Global flags
	configDir string
	dbPath    string
	verbose   bool

	settings  config.Settings
	logger    = zerolog.Nop()
	logCloser io.Closer
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubetwist",
	Short: "A 3x3x3 puzzle cube in your terminal",
	Long: `cubetwist renders a 3x3x3 puzzle cube in the terminal. Grab a layer with
the mouse and drag to twist it; on release the layer snaps to the nearest
quarter turn.

A GoCube smart cube can drive the same model over Bluetooth with the mirror
command, and every settled twist is kept in a local journal.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs args and closes the log file whether or not the command failed.
func execute(args []string) error {
	rootCmd.SetArgs(args)
	defer closeLog()
	return rootCmd.Execute()
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default: ~/.cubetwist)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Journal database path (default: <config-dir>/cubetwist.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setup loads the configuration and opens the log file.
func setup(cmd *cobra.Command, args []string) error {
	if configDir == "" {
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		configDir = dir
	}

	if err := config.Load(configDir); err != nil {
		return err
	}
	if dbPath != "" {
		config.Set("dbPath", dbPath)
	}
	if verbose {
		config.Set("logLevel", "debug")
	}

	s, err := config.Current()
	if err != nil {
		return err
	}
	settings = s

	var console io.Writer
	if verbose && cmd.Annotations[tuiAnnotation] == "" {
		console = os.Stderr
	}

	log, closer, err := logging.Setup(s.LogLevel, s.LogsDir, console)
	if err != nil {
		return err
	}
	logger = log
	logCloser = closer

	logger.Debug().
		Str("command", cmd.Name()).
		Str("configFile", config.UsedFile()).
		Str("db", s.DBPath).
		Msg("starting")
	return nil
}
