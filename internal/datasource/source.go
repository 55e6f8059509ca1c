package datasource

import (
	"context"
	"fmt"
	"io"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/awsconf"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

// Source loads all four input tables. Load performs every I/O the
// pipelines need; the returned dataset is owned by the caller.
type Source interface {
	Name() string
	Load(ctx context.Context) (*domain.Dataset, error)
}

// NewSource builds the source selected by cfg.Type. Sources that hold a
// connection also implement io.Closer.
func NewSource(ctx context.Context, cfg config.DataSourceConfig) (Source, error) {
	files, err := fileNames(cfg.Files)
	if err != nil {
		return nil, err
	}

	switch cfg.Type {
	case "", "example":
		return ExampleSource{}, nil
	case "dir":
		return NewDirSource(cfg.Dir, files), nil
	case "s3":
		awsCfg, err := awsconf.Load(ctx, cfg.AWSConfig)
		if err != nil {
			return nil, err
		}
		return NewS3Source(awsconf.S3(awsCfg, cfg.AWSConfig), cfg.S3Bucket, cfg.S3Prefix, files), nil
	case "sql":
		tables, err := sqlTableNames(cfg.Tables)
		if err != nil {
			return nil, err
		}
		db, err := OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLSource(db, cfg.Driver, tables), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Type)
}

// DefaultFileNames maps each table to its conventional CSV file name.
func DefaultFileNames() map[domain.TableName]string {
	return map[domain.TableName]string{
		domain.TableInfluencers: "influencers.csv",
		domain.TablePosts:       "posts.csv",
		domain.TableTracking:    "tracking.csv",
		domain.TablePayouts:     "payouts.csv",
	}
}

// fileNames applies configured overrides, keyed by table name, to the
// defaults.
func fileNames(overrides map[string]string) (map[domain.TableName]string, error) {
	files := DefaultFileNames()
	for key, name := range overrides {
		table, err := domain.ParseTableName(key)
		if err != nil {
			return nil, fmt.Errorf("datasource files: %w", err)
		}
		if name != "" {
			files[table] = name
		}
	}
	return files, nil
}

type openFunc func(ctx context.Context, name string) (io.ReadCloser, error)

// loadFiles opens and parses the four tables in load order.
func loadFiles(ctx context.Context, files map[domain.TableName]string, open openFunc) (*domain.Dataset, error) {
	ds := &domain.Dataset{}
	for _, table := range domain.AllTables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := files[table]
		rc, err := open(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("open %s table %s: %w", table, name, err)
		}
		err = ParseTable(table, rc, ds)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return ds, nil
}

func logLoaded(src Source, ds *domain.Dataset) {
	logger.Info("dataset loaded",
		"source", src.Name(),
		"influencers", len(ds.Influencers),
		"posts", len(ds.Posts),
		"tracking", len(ds.Tracking),
		"payouts", len(ds.Payouts))
}
