package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stefanpenner/switchback/pkg/tui"
	"go.uber.org/zap"
)

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	m := tui.NewModel(a.svc, tui.Options{
		Logger:       a.logger,
		GlamourStyle: a.cfg.TUI.Style,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	if a.cfg.TUI.Watch {
		cleanup, err := tui.WatchProgram(a.dir, p, a.logger)
		if err != nil {
			a.logger.Warn("file watcher failed", zap.Error(err))
		} else {
			defer cleanup()
		}
	}

	a.logger.Info("tui started")
	_, err = p.Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive view",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
