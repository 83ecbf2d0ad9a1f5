package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/skinkit/internal/ui"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [skin]",
		Short: "Browse the dialogs and elements of a skin interactively",
		Long: `inspect opens a terminal browser over the solved dialogs of a skin.
tab/shift+tab switch dialogs, / filters elements, q quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.loadSkin(a.skinName(args), nil)
			if err != nil {
				return err
			}
			defer s.Detach()
			doc, err := ui.Describe(s, a.run.Resolution)
			if err != nil {
				return err
			}
			opts, cleanup := getProgramOptions()
			defer cleanup()
			return ui.RunInspector(doc, a.run.NoColor, opts...)
		},
	}
}
