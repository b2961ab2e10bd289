// Package main provides the prosody command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-prosody/config"
	"github.com/RyanBlaney/sonido-prosody/logging"
)

var (
	// Version information (set at build time)
	version = "dev"

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// app carries state shared by subcommands after PersistentPreRunE
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	level, ok := logging.ParseLevel(cfg.Log.Level)
	if !ok {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	logging.SetLevel(level)
	if !cfg.Log.Color {
		logging.DisableColors()
	}

	a.cfg = cfg
	return nil
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "prosody",
		Short: "Prosody feature extraction and sarcasm detection for speech recordings",
		Long: titleStyle.Render("prosody") + `

Extracts syllable boundaries, pitch contour, intensity and speech rate from
WAV recordings, renders them as tables, JSON or annotated spectrograms, and
optionally asks a language model whether the speaker was sarcastic.

` + dimStyle.Render("Use 'prosody [command] --help' for more information."),
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./config.yaml or ~/.config/prosody/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newAnalyzeCommand(a),
		newDetectCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "prosody %s\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
