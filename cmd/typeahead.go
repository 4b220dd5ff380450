package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/internal/output"
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/listnav"
)

// typeaheadStep is the state after one typed character.
type typeaheadStep struct {
	Key    string
	Buffer string
	Match  int
}

// runTypeahead types query into a typeahead over labels, starting with from
// as the active index, and records the match after every key.
func runTypeahead(query string, labels []string, from int, fuzzy bool) []typeaheadStep {
	ctx := floating.New(floating.Options{Logger: slog.Default()})
	defer ctx.Close()

	match := listnav.None
	opts := listnav.TypeaheadOptions{
		Enabled:     true,
		ActiveIndex: func() int { return from },
		OnMatch:     func(i int) { match = i },
	}
	if fuzzy {
		opts.FindMatch = listnav.FuzzyMatch
	}
	t := listnav.NewTypeahead(ctx, opts)
	t.SetLabels(labels)

	var steps []typeaheadStep
	for _, r := range query {
		match = listnav.None
		t.OnKeyDown(&dom.Event{Type: dom.KeyDown, Key: string(r)})
		steps = append(steps, typeaheadStep{Key: string(r), Buffer: t.Buffer(), Match: match})
		if match != listnav.None {
			from = match
		}
	}
	return steps
}

var typeaheadCmd = &cobra.Command{
	Use:     "typeahead <query> <label>...",
	Short:   "Show which item typeahead picks for typed characters",
	GroupID: "playground",
	Args:    cobra.MinimumNArgs(2),
	Example: "  floatui typeahead aa Apple Apricot Banana\n  floatui typeahead --fuzzy bna Apple Banana Cherry",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetInt("from")
		fuzzy, _ := cmd.Flags().GetBool("fuzzy")
		if !cmd.Flags().Changed("fuzzy") {
			cfg, err := config.Load(getBaseDir())
			if err != nil {
				return err
			}
			fuzzy = cfg.List.Fuzzy
		}
		labels := args[1:]
		if from < listnav.None || from >= len(labels) {
			return fmt.Errorf("--from %d out of range for %d labels", from, len(labels))
		}

		out := cmd.OutOrStdout()
		for _, step := range runTypeahead(args[0], labels, from, fuzzy) {
			result := output.Muted("no match")
			if step.Match != listnav.None {
				result = fmt.Sprintf("%d %s", step.Match, labels[step.Match])
			}
			fmt.Fprintf(out, "%q  buffer=%-10q %s\n", step.Key, step.Buffer, result)
		}
		return nil
	},
}

func init() {
	typeaheadCmd.Flags().Int("from", listnav.None, "index active before typing")
	typeaheadCmd.Flags().Bool("fuzzy", false, "use fuzzy matching instead of prefix matching")

	rootCmd.AddCommand(typeaheadCmd)
}
