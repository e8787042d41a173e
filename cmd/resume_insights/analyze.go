package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-insights/internal/analysis"
	"github.com/jonathan/resume-insights/internal/ingestion"
	"github.com/jonathan/resume-insights/internal/observability"
	"github.com/jonathan/resume-insights/internal/pipeline"
	"github.com/jonathan/resume-insights/internal/ranking"
	"github.com/jonathan/resume-insights/internal/schemas"
	"github.com/jonathan/resume-insights/internal/store"
	"github.com/jonathan/resume-insights/internal/types"
)

type analyzeOptions struct {
	files       []string
	text        string
	seed        uint64
	outDir      string
	verbose     bool
	save        bool
	noJitter    bool
	concurrency int
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [resume...]",
		Short: "Score resumes against the role catalog",
		Long: `Runs each resume through extraction and scoring and prints its analysis document.
Several files are processed concurrently. With --save each analysis is persisted to the
configured store and files are processed one at a time so week-over-week changes line up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append(append([]string{}, opts.files...), args...)
			useText := cmd.Flags().Changed("text")
			switch {
			case useText && len(files) > 0:
				return fmt.Errorf("--text cannot be combined with resume files")
			case useText && opts.save:
				return fmt.Errorf("--save requires resume files")
			case !useText && len(files) == 0:
				return fmt.Errorf("at least one resume is required (use --file, --text or pass paths as arguments)")
			}
			if opts.noJitter && cmd.Flags().Changed("seed") {
				return fmt.Errorf("--no-jitter cannot be combined with --seed")
			}
			if opts.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}

			a, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			var seed *uint64
			if cmd.Flags().Changed("seed") {
				seed = &opts.seed
			}

			var st store.Store
			limit := opts.concurrency
			if opts.save {
				st, err = a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
				limit = 1
			}
			var extra []analysis.Option
			if opts.noJitter {
				extra = append(extra, analysis.WithSources(analysis.FixedSource(ranking.MidpointSource{})))
			}
			p, err := a.pipeline(st, seed, extra...)
			if err != nil {
				return err
			}

			var results []*pipeline.Result
			if useText {
				text := opts.text
				if text == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return fmt.Errorf("failed to read resume text from stdin: %w", err)
					}
					text = string(data)
				}
				text = ingestion.CleanText(text)
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("resume text is empty")
				}
				res, err := p.AnalyzeText(cmd.Context(), text, nil)
				if err != nil {
					return err
				}
				files = []string{"text"}
				results = []*pipeline.Result{res}
			} else {
				results, err = runFiles(cmd.Context(), p, files, limit, opts.save)
				if err != nil {
					return err
				}
			}

			printer := observability.NewPrinter(cmd.ErrOrStderr())
			docs := make([]*types.AnalysisDocument, len(results))
			for i, res := range results {
				if err := schemas.Validate(schemas.Analysis, res.Document); err != nil {
					a.logger.Warn("analysis does not match schema", zap.String("file", files[i]), zap.Error(err))
				}
				if opts.verbose {
					printer.PrintCandidate(res.Candidate)
					printer.PrintAnalysis(res.Document)
				}
				docs[i] = res.Document
			}

			if opts.outDir != "" {
				return writeAnalyses(cmd, opts.outDir, files, docs)
			}

			var payload any = docs
			if len(docs) == 1 {
				payload = docs[0]
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.files, "file", "f", nil, "Resume document to analyze (repeatable)")
	cmd.Flags().StringVar(&opts.text, "text", "", `Analyze this resume text instead of files ("-" reads stdin)`)
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Seed for reproducible scoring (overrides scoring.seed)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Write each analysis to <name>.analysis.json in this directory")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print a human-readable summary to stderr")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Persist each analysis to the configured store")
	cmd.Flags().BoolVar(&opts.noJitter, "no-jitter", false, "Score every component at the centre of its random range")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 4, "Maximum number of resumes processed at once")

	return cmd
}

// runFiles analyzes files with at most limit in flight. Results keep the input order.
func runFiles(ctx context.Context, p *pipeline.Pipeline, files []string, limit int, persist bool) ([]*pipeline.Result, error) {
	results := make([]*pipeline.Result, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, file := range files {
		g.Go(func() error {
			res, err := p.Run(gCtx, pipeline.RunOptions{Path: file, Persist: persist})
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeAnalyses writes one file per document, suffixing the name when two inputs share a base name.
func writeAnalyses(cmd *cobra.Command, outDir string, files []string, docs []*types.AnalysisDocument) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	seen := make(map[string]int, len(files))
	for i, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		name := base
		if n := seen[base]; n > 0 {
			name = fmt.Sprintf("%s-%d", base, n+1)
		}
		seen[base]++

		data, err := json.MarshalIndent(docs[i], "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal analysis for %s: %w", file, err)
		}

		path := filepath.Join(outDir, name+".analysis.json")
		if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}
