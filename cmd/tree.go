package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/internal/output"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/monitor"
)

// openScene builds the demo scene and opens the named widgets, parents
// first.
func openScene(cfg *config.Config, names []string) (*monitor.Scene, error) {
	sched := floating.NewManualScheduler()
	scene := monitor.NewScene(cfg, sched, slog.Default(), 80, 24)
	want := make(map[monitor.Kind]bool)
	for _, name := range names {
		k := monitor.Kind(strings.ToLower(strings.TrimSpace(name)))
		if k == "" {
			continue
		}
		if scene.Widget(k) == nil {
			scene.Close()
			return nil, fmt.Errorf("unknown widget %q (known: tooltip, menu, submenu, dialog, select)", name)
		}
		want[k] = true
	}
	if want[monitor.KindSubmenu] {
		want[monitor.KindMenu] = true
	}
	for _, w := range scene.Widgets {
		if want[w.Kind] {
			w.Ctx.SetOpen(true, floating.ReasonHost)
			sched.Flush()
		}
	}
	return scene, nil
}

var treeCmd = &cobra.Command{
	Use:     "tree",
	Short:   "Print the floating tree of the demo scene",
	GroupID: "playground",
	Example: "  floatui tree --open menu,submenu",
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetStringSlice("open")
		depth, _ := cmd.Flags().GetInt("depth")
		fullIDs, _ := cmd.Flags().GetBool("full-ids")

		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return err
		}
		scene, err := openScene(cfg, open)
		if err != nil {
			return err
		}
		defer scene.Close()

		roots := output.FromTree(scene.Tree, scene.NodeLabel)
		out := cmd.OutOrStdout()
		for _, line := range output.RenderTreeLines(roots, output.TreeRenderOptions{
			MaxDepth:   depth,
			ShowState:  true,
			ShowReason: true,
			ShortIDs:   !fullIDs,
		}) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, output.Muted("open: ")+output.RenderOpenChain(roots))
		return nil
	},
}

func init() {
	treeCmd.Flags().StringSlice("open", nil, "widgets to open: tooltip, menu, submenu, dialog, select")
	treeCmd.Flags().Int("depth", 0, "maximum depth to print (0 = unlimited)")
	treeCmd.Flags().Bool("full-ids", false, "print full node ids")

	rootCmd.AddCommand(treeCmd)
}
