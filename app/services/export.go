package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/docstore"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/schema"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// ExportedFile describes one collection snapshot written by Export.
type ExportedFile struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Documents  int    `json:"documents"`
	URL        string `json:"url"`
}

type ExportService struct {
	store docstore.Store
	disk  storage.Disk
	now   func() time.Time
}

func NewExportService(store docstore.Store, disk storage.Disk) *ExportService {
	return &ExportService{store: store, disk: disk, now: time.Now}
}

// exportWorkers bounds how many collections are exported at once.
const exportWorkers = 4

// Export writes every registered collection as a JSON array under
// <prefix>/<UTC timestamp>/<collection>.json. Documents carry "id" in place
// of the internal key, as the API returns them. Collections are written
// concurrently; the result keeps registry order and omits failed ones.
func (s *ExportService) Export(ctx context.Context, prefix string) ([]ExportedFile, error) {
	dir := path.Join(prefix, s.now().UTC().Format("20060102T150405Z"))
	colls := schema.Collections()
	files := make([]*ExportedFile, len(colls))

	pool := workerpool.New(exportWorkers)
	for i, coll := range colls {
		err := pool.Submit(ctx, func(ctx context.Context) error {
			f, err := s.exportOne(ctx, dir, coll)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
		if err != nil {
			break
		}
	}
	err := pool.Wait()
	if err == nil {
		err = ctx.Err()
	}

	out := make([]ExportedFile, 0, len(colls))
	for _, f := range files {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, err
}

func (s *ExportService) exportOne(ctx context.Context, dir, coll string) (*ExportedFile, error) {
	docs, err := s.store.Find(ctx, coll, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", coll, err)
	}

	rows := make([]docstore.Document, len(docs))
	for i, d := range docs {
		rows[i] = docstore.Normalize(d)
	}

	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export %s: encode: %w", coll, err)
	}

	file := path.Join(dir, coll+".json")
	if err := s.disk.Put(ctx, file, body); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("collection exported", "collection", coll, "documents", len(rows), "disk", s.disk.Driver())
	return &ExportedFile{
		Collection: coll,
		Path:       file,
		Documents:  len(rows),
		URL:        s.disk.URL(file),
	}, nil
}
