package main

import (
	"fmt"

	"github.com/aretw0/blackboard/internal/presentation/graph"
	"github.com/aretw0/blackboard/pkg/catalog"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the slots of a registry document",
	Long:  `Decodes a registry document and prints its slots, with values coerced to their types.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, r, err := loadRegistry(args[0])
		if err != nil {
			return err
		}

		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			used := make([]string, 0, r.Len())
			for _, p := range r.Parameters() {
				if p != nil {
					used = append(used, p.Kind().Name())
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(catalog.Default().Kinds(), &graph.MenuOverlay{Used: used}))
			return nil
		}

		normalized := snapshot.Encode(doc.Name, r)
		normalized.Description = doc.Description
		format, _ := cmd.Flags().GetString("output")
		return writeDocument(cmd.OutOrStdout(), normalized, format, "")
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("output", "o", "markdown", "Output format (markdown, yaml, json)")
	inspectCmd.Flags().Bool("mermaid", false, "Print the create menu with the kinds this registry uses highlighted")
}
