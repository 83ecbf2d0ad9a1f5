package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/skinkit/internal/ui"
	"github.com/oakwood-commons/skinkit/pkg/logger"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [skin]",
		Short: "Load a skin and lay out every dialog",
		Long: `check loads the global file and every dialog of a skin, then solves each
dialog's layout at the requested resolution. It fails on the first load
error, or after reporting every dialog whose layout cannot be solved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.skinName(args)
			s, err := a.loadSkin(name, nil)
			if err != nil {
				return err
			}
			defer s.Detach()
			doc, err := ui.Describe(s, a.run.Resolution)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, d := range doc.Dialogs {
				switch {
				case d.Error != "":
					failed++
					fmt.Fprintf(out, "FAIL %s: %s\n", d.Name, d.Error)
				case d.Bounds == "":
					fmt.Fprintf(out, "ok   %s (no layout)\n", d.Name)
				default:
					fmt.Fprintf(out, "ok   %s %s\n", d.Name, d.Bounds)
				}
			}
			logger.FromContext(a.ctx).V(1).Info("skin checked", "skin", name, "dialogs", len(doc.Dialogs), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("skin '%s': %d of %d dialogs failed to lay out", doc.Name, failed, len(doc.Dialogs))
			}
			fmt.Fprintf(out, "skin '%s' ok: %d dialogs, %d command lists at %dx%d\n",
				doc.Name, len(doc.Dialogs), len(doc.CommandLists), a.run.Resolution.X, a.run.Resolution.Y)
			return nil
		},
	}
}
