// Command roi-report runs the ROI pipelines once over a data source and
// writes the report tables as CSV.
//
//	roi-report -source dir -dir ./data -out ./reports
//	roi-report -report campaigns -brand MuscleBlaze > campaigns.csv
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/datasource"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
	"github.com/ignite/influencer-roi/internal/report"
	"github.com/ignite/influencer-roi/internal/roi"
	"github.com/ignite/influencer-roi/internal/storage"
)

// listFlag collects a repeatable flag. Unset means every value.
type listFlag struct {
	values []string
	set    bool
}

func (l *listFlag) String() string { return strings.Join(l.values, ",") }

func (l *listFlag) Set(v string) error {
	l.set = true
	if v != "" {
		l.values = append(l.values, v)
	}
	return nil
}

func (l *listFlag) selection() []string {
	if !l.set {
		return nil
	}
	if l.values == nil {
		return []string{}
	}
	return l.values
}

type options struct {
	configPath string
	sourceType string
	dir        string
	out        string
	report     string
	archive    bool
	brands     listFlag
	products   listFlag
	platforms  listFlag
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("roi-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.yaml (defaults plus env overrides when empty)")
	fs.StringVar(&opts.sourceType, "source", "", "Data source type: example, dir, s3, sql (overrides config)")
	fs.StringVar(&opts.dir, "dir", "", "Input directory for -source dir")
	fs.StringVar(&opts.out, "out", "reports", "Output directory for all report tables")
	fs.StringVar(&opts.report, "report", "", "Write only this report to stdout (campaigns, influencers, top, personas, underperformers, payouts)")
	fs.BoolVar(&opts.archive, "archive", false, "Also save the tables through the configured export storage")
	fs.Var(&opts.brands, "brand", "Campaign brand filter (repeatable)")
	fs.Var(&opts.products, "product", "Campaign product filter (repeatable)")
	fs.Var(&opts.platforms, "platform", "Campaign platform filter (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadFromEnv(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.sourceType != "" {
		cfg.DataSource.Type = opts.sourceType
	}
	if opts.dir != "" {
		cfg.DataSource.Dir = opts.dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	var kind report.Kind
	if opts.report != "" {
		if kind, err = report.ParseKind(opts.report); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedact(cfg.Log.RedactEnabled())

	source, err := datasource.NewSource(ctx, cfg.DataSource)
	if err != nil {
		return err
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.DataSource.Timeout())
	defer cancel()
	ds, err := source.Load(loadCtx)
	if err != nil {
		return err
	}

	engine := roi.NewEngine(roi.InsightOptions{
		TopN:      cfg.Report.TopN,
		Threshold: cfg.Report.UnderperformThreshold,
	})
	filter := roi.CampaignFilter{
		Brands:    opts.brands.selection(),
		Products:  opts.products.selection(),
		Platforms: opts.platforms.selection(),
	}

	var tables []*report.Table
	if kind != "" {
		table := report.Build(engine, ds, kind, filter)
		if err := table.WriteCSV(stdout); err != nil {
			return err
		}
		tables = []*report.Table{table}
	} else {
		tables = report.BuildAll(engine, ds, filter)
		if err := writeTables(opts.out, tables); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "wrote %d reports from %s to %s\n", len(tables), source.Name(), opts.out)
	}

	if opts.archive {
		return archive(ctx, cfg.Export, ds, tables, stderr)
	}
	return nil
}

func writeTables(dir string, tables []*report.Table) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, t := range tables {
		path := filepath.Join(dir, t.Kind.FileName())
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = t.WriteCSV(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("report written", "path", path, "rows", t.Len())
	}
	return nil
}

func archive(ctx context.Context, cfg config.ExportConfig, ds *domain.Dataset, tables []*report.Table, stderr io.Writer) error {
	exporter, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}
	for _, t := range tables {
		var buf bytes.Buffer
		if err := t.WriteCSV(&buf); err != nil {
			return err
		}
		rec, err := exporter.Save(ctx, storage.Export{
			Report:         string(t.Kind),
			FileName:       t.Kind.FileName(),
			Content:        buf.Bytes(),
			Rows:           t.Len(),
			DatasetVersion: ds.Version,
		})
		if err != nil {
			return fmt.Errorf("archiving %s: %w", t.Kind, err)
		}
		fmt.Fprintf(stderr, "archived %s as %s\n", t.Kind, rec.Location)
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "roi-report: %v\n", err)
		os.Exit(1)
	}
}
