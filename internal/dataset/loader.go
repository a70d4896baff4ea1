// internal/dataset/loader.go
// Package dataset loads evaluation result files into flattened tables.
package dataset

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"

	"github.com/mwiater/evaldash/internal/evaluation"
	"github.com/mwiater/evaldash/internal/logging"
)

// ErrUploadTooLarge is returned by ReadUpload when the body exceeds its limit.
var ErrUploadTooLarge = errors.New("uploaded file exceeds the size limit")

// Upload is a results file supplied by the user.
type Upload struct {
	Name string
	Data []byte
}

// Dataset is a loaded table plus where it came from. Source and Digest are empty
// when nothing was available to load.
type Dataset struct {
	Table  *evaluation.Table
	Source string
	Digest string
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool {
	return d == nil || d.Table.Empty()
}

// Loader resolves the active results file and flattens it through a Cache.
type Loader struct {
	flattener   *evaluation.Flattener
	defaultPath string
	cache       *Cache
	group       singleflight.Group
}

// NewLoader returns a Loader that falls back to defaultPath when no upload is
// given. A nil schema uses evaluation.DefaultSchema.
func NewLoader(defaultPath string, schema *evaluation.Schema) *Loader {
	return &Loader{
		flattener:   evaluation.NewFlattener(schema),
		defaultPath: defaultPath,
		cache:       NewCache(),
	}
}

// Cache exposes the loader's cache for manual invalidation.
func (l *Loader) Cache() *Cache {
	return l.cache
}

// DefaultPath returns the file loaded when there is no upload.
func (l *Loader) DefaultPath() string {
	return l.defaultPath
}

// Load flattens upload, or the default file when upload is nil. With neither
// available it returns an empty dataset and no error.
func (l *Loader) Load(upload *Upload) (*Dataset, error) {
	if upload != nil {
		return l.LoadBytes("upload:"+upload.Name, upload.Data)
	}
	if l.defaultPath == "" {
		return emptyDataset(), nil
	}

	data, err := os.ReadFile(l.defaultPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.LogEvent("no upload and no default file at %s; dataset is empty", l.defaultPath)
			return emptyDataset(), nil
		}
		return nil, eris.Wrapf(err, "read %s", l.defaultPath)
	}
	return l.LoadBytes("file:"+l.defaultPath, data)
}

// LoadBytes flattens data, reusing the cached table for identical content.
// Concurrent loads of the same content share one flattening pass.
func (l *Loader) LoadBytes(source string, data []byte) (*Dataset, error) {
	start := time.Now()
	digest := Digest(data)
	if table, ok := l.cache.Get(digest); ok {
		logging.LogLoad(source, digest, table.Len(), true, time.Since(start))
		return &Dataset{Table: table, Source: source, Digest: digest}, nil
	}

	v, err, _ := l.group.Do(digest, func() (any, error) {
		table, err := l.flattener.FlattenDocument(data)
		if err != nil {
			return nil, err
		}
		l.cache.Put(digest, table)
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	table := v.(*evaluation.Table)
	logging.LogLoad(source, digest, table.Len(), false, time.Since(start))
	return &Dataset{Table: table, Source: source, Digest: digest}, nil
}

// ReadUpload reads at most limit bytes from r.
func ReadUpload(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, eris.Wrap(err, "read upload")
	}
	if int64(len(data)) > limit {
		return nil, ErrUploadTooLarge
	}
	return data, nil
}

func emptyDataset() *Dataset {
	return &Dataset{Table: evaluation.NewTable()}
}
