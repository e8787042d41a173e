package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/ingestion"
	"github.com/jonathan/resume-insights/internal/schemas"
)

type extractOptions struct {
	file    string
	out     string
	textOut string
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a structured candidate record from a resume",
		Long:  "Reads a resume document, cleans its text and extracts contact details, skills, experience, education and projects as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			text, meta, err := ingestion.IngestFromFile(cmd.Context(), opts.file)
			if err != nil {
				return err
			}
			a.logger.Debug("ingested resume",
				zap.String("file", meta.Filename),
				zap.String("format", meta.Format),
				zap.Int("bytes", len(text)))

			if opts.textOut != "" {
				if err := ingestion.WriteOutput(opts.textOut, text, meta); err != nil {
					return err
				}
			}

			cand := a.parser().Extract(text)
			if err := schemas.Validate(schemas.Candidate, &cand); err != nil {
				a.logger.Warn("candidate record does not match schema", zap.Error(err))
			}

			data, err := json.MarshalIndent(cand, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal candidate: %w", err)
			}
			data = append(data, '\n')

			if opts.out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(opts.out, data, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote candidate record to %s\n", opts.out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to the resume document (required)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the candidate JSON to this file instead of stdout")
	cmd.Flags().StringVar(&opts.textOut, "text-out", "", "Directory to write the cleaned text and its metadata to")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
