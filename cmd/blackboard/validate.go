package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/blackboard/internal/presentation/tui"
	"github.com/aretw0/blackboard/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a registry document",
	Long:  `Decodes a YAML or JSON registry document and reports every parameter that does not fit its type.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		_, r, err := loadRegistry(args[0])
		if err != nil {
			fmt.Fprintln(out, tui.Failure(out, "Validation failed"))
			for _, e := range schema.ValidationErrors(err) {
				fmt.Fprintf(out, "  - %v\n", e)
			}
			if schema.ValidationErrors(err) != nil {
				return errors.New("registry is invalid")
			}
			return err
		}

		fmt.Fprintln(out, tui.Success(out, fmt.Sprintf("Registry is valid (%d slots, %d parameters)", r.Len(), len(r.Schema()))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
