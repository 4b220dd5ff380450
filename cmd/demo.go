package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/pkg/monitor"
)

var demoCmd = &cobra.Command{
	Use:     "demo",
	Short:   "Open the interactive floating element playground",
	GroupID: "playground",
	Long: `Opens a full-screen playground with a tooltip, a menu with a submenu, a
modal dialog and a select. Use the mouse or keyboard; ctrl+t toggles the
floating tree panel and ctrl+q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return err
		}
		if err := monitor.Run(cfg, slog.Default()); err != nil {
			return fmt.Errorf("run demo: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
