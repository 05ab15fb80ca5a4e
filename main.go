package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/RockBacon9922/theatremix-remote-display/config"
	"github.com/RockBacon9922/theatremix-remote-display/cue"
	"github.com/RockBacon9922/theatremix-remote-display/receiver"
	"github.com/RockBacon9922/theatremix-remote-display/ui"
)

var (
	Version = "dev"

	flags struct {
		port       int
		configPath string
		logFile    string
	}
)

var rootCmd = &cobra.Command{
	Use:   "theatremix-remote-display",
	Short: "Companion cue display for TheatreMix",
	Long: `theatremix-remote-display listens for OSC messages from TheatreMix and
shows the standing cue, its description and its color in the terminal,
ready for a backstage or followspot monitor.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&flags.port, "port", "p", 0,
		"UDP port to listen on (overrides and updates the config file)")
	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", "",
		"Path to the config file (defaults to the platform config dir)")
	rootCmd.Flags().StringVarP(&flags.logFile, "log", "l", "",
		"Write debug logs to specified file (empty disables)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	path := flags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	// A port given on the command line becomes the new persisted default.
	if cmd.Flags().Changed("port") {
		cfg.ListenPort = flags.port
		if err := config.SaveConfig(path, cfg); err != nil {
			logger.Warn("could not persist config", "path", path, "err", err)
		}
	}

	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)

		level := log.DebugLevel
		if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
			level = lvl
		}
		logger.SetLevel(level)
	}

	state := cue.NewState()
	rx, err := receiver.Start(receiver.Config{Port: cfg.ListenPort, State: state, Logger: logger})
	if err != nil {
		return err
	}
	defer rx.Stop()

	if cfg.Stream.Enabled {
		sx, err := receiver.StartStream(receiver.StreamConfig{
			Addr:   cfg.Stream.ListenAddr,
			State:  state,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer sx.Stop()
	}

	if flags.logFile == "" {
		// The alternate screen owns the terminal from here on.
		logger.SetOutput(io.Discard)
	}

	p := tea.NewProgram(ui.New(state, rx, cfg.ListenPort), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
