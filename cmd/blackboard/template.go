package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/blackboard/internal/presentation/report"
	"github.com/aretw0/blackboard/internal/presentation/tui"
	"github.com/aretw0/blackboard/pkg/snapshot"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage stored templates",
	Long: `Publishes, lists, shows and removes templates in the template store.
The file store is used unless --redis-addr is given.`,
}

var templateLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closer, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		names, err := m.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No templates found.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var templatePutCmd = &cobra.Command{
	Use:   "put <file>",
	Short: "Publish a registry document as a template",
	Long: `Validates a registry document and stores it. The template is named after
the file unless --name is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closer, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		doc, err := snapshot.LoadFile(args[0])
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}

		if err := m.PublishDocument(cmd.Context(), name, doc); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.Success(out, fmt.Sprintf("Published template %s", name)))
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closer, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		doc, err := m.Document(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return writeDocument(cmd.OutOrStdout(), doc, format, "")
	},
}

var templateRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a stored template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, closer, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		if err := m.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tui.Success(out, fmt.Sprintf("Removed template %s", args[0])))
		return nil
	},
}

var templateInstantiateCmd = &cobra.Command{
	Use:   "instantiate <name>",
	Short: "Create an instance of a stored template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("set")
		raw, err := parseSet(pairs)
		if err != nil {
			return err
		}

		m, closer, err := newManager(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		template, err := m.Template(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		values, err := overrideValues(template, raw)
		if err != nil {
			return err
		}
		inst, err := m.Instantiate(cmd.Context(), args[0], values)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return writeDocument(cmd.OutOrStdout(), inst.Document(), format, "\n"+report.Delta(inst.Diff()))
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateLsCmd, templatePutCmd, templateShowCmd, templateRmCmd, templateInstantiateCmd)

	templatePutCmd.Flags().String("name", "", "Template name (default: file name without extension)")
	templateShowCmd.Flags().StringP("output", "o", "markdown", "Output format (markdown, yaml, json)")
	templateInstantiateCmd.Flags().StringArray("set", nil, "Override a parameter (name=value), repeatable")
	templateInstantiateCmd.Flags().StringP("output", "o", "markdown", "Output format (markdown, yaml, json)")
}
