package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/internal/output"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show and change interaction defaults",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		for _, key := range config.Keys() {
			v, _ := cfg.Get(key)
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", key, v)
		}
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, key := range config.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return err
		}
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the project config",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(getBaseDir(), args[0], args[1]); err != nil {
			return fmt.Errorf("set config: %w", err)
		}
		output.Success("%s set to %s", args[0], args[1])
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(getBaseDir(), config.Default()); err != nil {
			return fmt.Errorf("reset config: %w", err)
		}
		output.Success("config reset to defaults")
		return nil
	},
}

func init() {
	configShowCmd.Flags().Bool("json", false, "print the config as JSON")
	configSetCmd.Example = "  floatui config set hover.closeDelayMs 150\n  floatui config set list.fuzzy true"

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)

	rootCmd.AddCommand(configCmd)
}
