package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/skinkit/internal/config"
	"github.com/oakwood-commons/skinkit/pkg/settings"
)

// newConfigCmd groups configuration subcommands, gh style.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage " + settings.CliBinaryName + " configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	var defaults bool
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
				return err
			}
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	get.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults with comments")
	cmd.AddCommand(get)
	return cmd
}
