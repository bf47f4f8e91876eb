package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/blackboard/internal/presentation/graph"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the parameter kinds that can be created",
	Long:  `Prints the built-in parameter kinds in create-menu order, or the menu as a Mermaid graph.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := catalog.Default().Kinds()
		out := cmd.OutOrStdout()

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			fmt.Fprint(out, graph.GenerateMermaid(kinds, nil))
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MENU\tTYPE\tGROUP")
		for _, k := range kinds {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", k.MenuPath, k.Name(), k.GroupLevel)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
	kindsCmd.Flags().Bool("mermaid", false, "Print the create menu as a Mermaid graph")
}
