package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/skinkit/internal/ui"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		dialogs []string
		output  = outputFormatValue("tree")
		width   int
	)
	cmd := &cobra.Command{
		Use:   "dump [skin]",
		Short: "Print the solved layout of a skin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSkin(a.skinName(args), nil)
			if err != nil {
				return err
			}
			defer s.Detach()
			doc, err := ui.Describe(s, a.run.Resolution, dialogs...)
			if err != nil {
				return err
			}
			if output != "tree" {
				return ui.Encode(cmd.OutOrStdout(), doc, string(output))
			}
			if width <= 0 {
				width, _ = detectTerminalSize()
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), ui.RenderTree(doc, ui.TreeOptions{Width: width, NoColor: a.run.NoColor}))
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&dialogs, "dialog", "d", nil, "only dump these dialogs (repeatable)")
	cmd.Flags().VarP(&output, "output", "o", "output format: tree|yaml|json|toml")
	cmd.Flags().IntVar(&width, "width", 0, "tree width in columns (default: terminal width)")
	return cmd
}
