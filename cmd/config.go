package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rubymark/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the rubymark config file",
}

var (
	configGlobal bool
	configForce  bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a config file with every setting at its default value.

The file goes to --config when given, to ~/.config/rubymark/config.yaml with
--global, and to .rubymark/config.yaml otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configTarget()
		if fileExists(path) && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configSetFormatCmd = &cobra.Command{
	Use:       "set-format <html|terminal|fallback>",
	Short:     "Set the default render format",
	Long:      `Update render.format in the config file, keeping its comments and other settings.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{config.FormatHTML, config.FormatTerminal, config.FormatFallback},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgUsed
		if path == "" || configGlobal {
			path = configTarget()
		}
		if err := config.SaveFormat(path, args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "render.format = %s in %s\n", args[0], path)
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().BoolVarP(&configGlobal, "global", "g", false, "use the user config in ~/.config/rubymark")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configSetFormatCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget picks the file config subcommands write to.
func configTarget() string {
	switch {
	case cfgFile != "":
		return cfgFile
	case configGlobal:
		if p := config.DefaultConfigPath(); p != "" {
			return p
		}
	}
	return localConfigPath
}
