package cmd

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available chroma styles",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range styles.Names() {
			if name == cfg.Highlight.Theme {
				fmt.Fprintln(out, successStyle.Render(name+" (active)"))
				continue
			}
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themesCmd)
}
