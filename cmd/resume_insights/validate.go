package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-insights/internal/schemas"
)

func newValidateCmd() *cobra.Command {
	var schema, file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON document against a schema",
		Long:  `Validates a JSON file against the embedded "analysis" or "candidate" schema, or against a schema file on disk.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := schemas.ValidateFile(schema, file); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid against %s\n", file, schema)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schema, "schema", "s", schemas.Analysis, `Schema to validate against: "analysis", "candidate" or a schema file path`)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the JSON document (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
