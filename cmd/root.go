package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/marcus/floatui/internal/output"
)

var (
	version string
	baseDir string
	logPath string
	logFile *os.File
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "floatui",
	Short: "Floating UI interaction engine playground",
	Long: `floatui - coordinate floating elements (tooltips, menus, dialogs, selects) in a terminal.

The demo drives hover intent, the safe polygon, dismissal, focus management,
list navigation and typeahead over an in-memory document.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if strings.HasPrefix(err.Error(), "unknown command") {
			if s := suggestCommand(firstNonFlagArg(os.Args[1:])); s != "" {
				output.Error("%v\n\nDid you mean %q?", err, s)
				os.Exit(1)
			}
		}
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.AddGroup(
		&cobra.Group{ID: "playground", Title: "Playground:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "write debug logs to this file")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the base directory for the project
func getBaseDir() string {
	return baseDir
}

// setupLogging routes slog to --log, or discards it: the demo owns the
// terminal and stray log lines would corrupt the screen.
func setupLogging(cmd *cobra.Command, args []string) error {
	var w io.Writer = io.Discard
	level := slog.LevelInfo
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
		w = f
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	slog.Debug("cli: starting", "command", cmd.CommandPath(), "version", version)
	return nil
}

// firstNonFlagArg returns the first argument that is not a flag.
func firstNonFlagArg(args []string) string {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return ""
}

// suggestCommand returns the closest command name to typed, or "".
func suggestCommand(typed string) string {
	if typed == "" {
		return ""
	}
	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}
	matches := fuzzy.Find(typed, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
