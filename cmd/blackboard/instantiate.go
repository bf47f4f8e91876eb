package main

import (
	"fmt"

	"github.com/aretw0/blackboard/internal/presentation/report"
	"github.com/aretw0/blackboard/pkg/blackboard"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/spf13/cobra"
)

var instantiateCmd = &cobra.Command{
	Use:   "instantiate <file>",
	Short: "Clone a registry document with overrides",
	Long: `Loads a registry document as a template, replaces the parameters named by
--set and prints the resulting instance.

Values for string parameters are taken as written. Other values are parsed as
YAML and coerced to the kind of the parameter they replace:

  blackboard instantiate guard.yaml --set speed=9 --set cooldown=2s --set 'tags=[boss]'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		pairs, _ := cmd.Flags().GetStringArray("set")
		raw, err := parseSet(pairs)
		if err != nil {
			return err
		}

		// 1. Load the template
		doc, template, err := loadRegistry(args[0], blackboard.WithLogger(logger))
		if err != nil {
			return err
		}

		// 2. Build and apply overrides
		values, err := overrideValues(template, raw)
		if err != nil {
			return err
		}
		overrides, err := snapshot.ParseOverrides(template, values)
		if err != nil {
			return err
		}
		instance, err := template.CloneWithOverrides(overrides)
		if err != nil {
			return fmt.Errorf("failed to instantiate %s: %w", args[0], err)
		}

		// 3. Print
		out := snapshot.Encode(doc.Name, instance)
		out.Description = doc.Description
		format, _ := cmd.Flags().GetString("output")
		return writeDocument(cmd.OutOrStdout(), out, format, "\n"+report.Delta(snapshot.Diff(template, instance)))
	},
}

func init() {
	rootCmd.AddCommand(instantiateCmd)
	instantiateCmd.Flags().StringArray("set", nil, "Override a parameter (name=value), repeatable")
	instantiateCmd.Flags().StringP("output", "o", "markdown", "Output format (markdown, yaml, json)")
}
