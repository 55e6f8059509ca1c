package datasource

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/ignite/influencer-roi/internal/domain"
)

// DirSource reads the four tables as CSV files from a local directory.
type DirSource struct {
	dir   string
	files map[domain.TableName]string
}

// NewDirSource creates a directory source. A nil files map uses
// DefaultFileNames.
func NewDirSource(dir string, files map[domain.TableName]string) *DirSource {
	if files == nil {
		files = DefaultFileNames()
	}
	return &DirSource{dir: dir, files: files}
}

func (s *DirSource) Name() string { return "dir:" + s.dir }

func (s *DirSource) Load(ctx context.Context) (*domain.Dataset, error) {
	ds, err := loadFiles(ctx, s.files, func(_ context.Context, name string) (io.ReadCloser, error) {
		return os.Open(filepath.Join(s.dir, name))
	})
	if err != nil {
		return nil, err
	}
	logLoaded(s, ds)
	return ds, nil
}
