package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/pkg/awsconf"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

// ErrEmptyExport is returned when an export carries no file name or content.
var ErrEmptyExport = errors.New("export has no content")

// Export is one rendered report file to archive.
type Export struct {
	Report         string
	FileName       string
	Content        []byte
	Rows           int
	DatasetVersion string
}

// ExportRecord is the manifest entry of an archived export.
type ExportRecord struct {
	ID             string    `json:"id" dynamodbav:"ID"`
	Report         string    `json:"report" dynamodbav:"Report"`
	FileName       string    `json:"file_name" dynamodbav:"FileName"`
	Location       string    `json:"location" dynamodbav:"Location"`
	Rows           int       `json:"rows" dynamodbav:"Rows"`
	Bytes          int       `json:"bytes" dynamodbav:"Bytes"`
	DatasetVersion string    `json:"dataset_version" dynamodbav:"DatasetVersion"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"CreatedAt"`
}

// Exporter archives report exports and lists the manifest, newest first.
type Exporter interface {
	Save(ctx context.Context, e Export) (*ExportRecord, error)
	List(ctx context.Context) ([]ExportRecord, error)
}

// New builds the exporter selected by cfg.Type.
func New(ctx context.Context, cfg config.ExportConfig) (Exporter, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalExporter(cfg.LocalPath)
	case "aws":
		awsCfg, err := awsconf.Load(ctx, cfg.AWSConfig)
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		return NewAWSExporter(
			awsconf.S3(awsCfg, cfg.AWSConfig),
			awsconf.DynamoDB(awsCfg, cfg.AWSConfig),
			cfg.S3Bucket, cfg.S3Prefix, cfg.DynamoDBTable,
		), nil
	}
	return nil, fmt.Errorf("unknown export storage type %q", cfg.Type)
}

func newRecord(e Export) (*ExportRecord, error) {
	if e.FileName == "" || len(e.Content) == 0 {
		return nil, ErrEmptyExport
	}
	return &ExportRecord{
		ID:             uuid.NewString(),
		Report:         e.Report,
		FileName:       filepath.Base(e.FileName),
		Rows:           e.Rows,
		Bytes:          len(e.Content),
		DatasetVersion: e.DatasetVersion,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func sortNewestFirst(records []ExportRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

const manifestFile = "manifest.jsonl"

// LocalExporter writes exports under a local directory as
// <root>/<id>/<file> with one JSON manifest line per export.
type LocalExporter struct {
	root string
	mu   sync.Mutex
}

// NewLocalExporter creates the root directory if needed.
func NewLocalExporter(root string) (*LocalExporter, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalExporter{root: root}, nil
}

func (s *LocalExporter) Save(_ context.Context, e Export) (*ExportRecord, error) {
	rec, err := newRecord(e)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, rec.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, rec.FileName)
	if err := os.WriteFile(path, e.Content, 0644); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}
	rec.Location = path

	line, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(filepath.Join(s.root, manifestFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("appending manifest: %w", err)
	}

	logger.Info("report exported", "storage", "local", "report", rec.Report, "id", rec.ID, "rows", rec.Rows)
	return rec, nil
}

// List reads the manifest. Unreadable lines are skipped.
func (s *LocalExporter) List(context.Context) ([]ExportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []ExportRecord{}
	f, err := os.Open(filepath.Join(s.root, manifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	// manifest lines are chronological; reverse so equal timestamps keep
	// the later line first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	sortNewestFirst(records)
	return records, nil
}
