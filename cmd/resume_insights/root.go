package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-insights/internal/analysis"
	"github.com/jonathan/resume-insights/internal/catalog"
	"github.com/jonathan/resume-insights/internal/config"
	"github.com/jonathan/resume-insights/internal/observability"
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/pipeline"
	"github.com/jonathan/resume-insights/internal/ranking"
	"github.com/jonathan/resume-insights/internal/store"
)

const app = "resume_insights"

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           app,
		Short:         "Resume Insights extracts candidate data from resumes and scores role fit",
		Long:          "Resume Insights turns resume documents into structured candidate records and fit analyses, from the command line or over a REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is resume-insights.yaml in current directory)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	cmd.AddCommand(
		newExtractCmd(opts),
		newAnalyzeCmd(opts),
		newRolesCmd(opts),
		newValidateCmd(),
		newServeCmd(opts),
	)
	return cmd
}

// appContext is the configuration and shared services a command runs with.
type appContext struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
}

func (o *rootOptions) load() (*appContext, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Log.Debug = cfg.Log.Debug || o.debug
	cfg.Log.JSON = cfg.Log.JSON || o.json

	logger, err := observability.NewLogger(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	cat, err := catalog.LoadOrDefault(cfg.Scoring.CatalogPath)
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, logger: logger, catalog: cat}, nil
}

func (a *appContext) parser() *parsing.Parser {
	return parsing.NewParser(a.catalog)
}

// pipeline builds the processing pipeline. seed overrides the configured seed when set and
// extra compiler options are applied last.
func (a *appContext) pipeline(st store.Store, seed *uint64, extra ...analysis.Option) (*pipeline.Pipeline, error) {
	if seed == nil {
		seed = a.cfg.Scoring.Seed
	}

	opts := []analysis.Option{analysis.WithLogger(a.logger)}
	if seed != nil {
		opts = append(opts, analysis.WithSeed(*seed))
	}
	opts = append(opts, extra...)

	engine, err := ranking.NewEngine(a.catalog, a.cfg.Scoring.Weights)
	if err != nil {
		return nil, err
	}
	return pipeline.New(a.parser(), analysis.NewCompiler(engine, opts...), st, a.logger), nil
}

func (a *appContext) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, a.cfg.Storage, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis store: %w", err)
	}
	return st, nil
}
