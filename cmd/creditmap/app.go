package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/db"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/storage"
)

func openBlobs() (*storage.FSStore, error) {
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}
	return bs, nil
}

func openDB(ctx context.Context) (*sql.DB, error) {
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}
	return dbh, nil
}

func blobSource(bs storage.BlobStore) dataset.BlobSource {
	return dataset.BlobSource{Store: bs, Client: &http.Client{Timeout: cfg.PredictTimeout}}
}

func newLoader(bs storage.BlobStore) *dataset.Loader {
	return &dataset.Loader{
		Source:       blobSource(bs),
		GeoKey:       cfg.GeoDataset,
		FinancialKey: cfg.FinancialDataset,
		Log:          logger,
	}
}

// localDatasets maps the dataset keys that live in the blob store to files,
// skipping URLs.
func localDatasets(bs *storage.FSStore) []string {
	var out []string
	for _, key := range []string{cfg.GeoDataset, cfg.FinancialDataset} {
		if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
			continue
		}
		if p, err := bs.Path(key); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// readSamples parses the sample dataset.
func readSamples(ctx context.Context, src dataset.Source, key string) ([]samples.Point, error) {
	rc, err := src.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open samples %q: %w", key, err)
	}
	defer rc.Close()
	pts, skipped, err := samples.ParseCSV(rc)
	if err != nil {
		return nil, fmt.Errorf("parse samples %q: %w", key, err)
	}
	if skipped > 0 {
		logger.Warn("skipped sample rows", zap.String("key", key), zap.Int("skipped", skipped))
	}
	return pts, nil
}

// seedIfEmpty fills an empty sample table from the sample dataset.
func seedIfEmpty(ctx context.Context, store *samples.Store, src dataset.Source) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	pts, err := readSamples(ctx, src, cfg.SamplesDataset)
	if err != nil {
		return err
	}
	if err := store.Seed(ctx, pts); err != nil {
		return err
	}
	logger.Info("seeded samples", zap.Int("rows", len(pts)))
	return nil
}

// fileSamples plots the first n rows of the sample dataset, for commands
// that run without a database.
type fileSamples struct {
	src dataset.Source
	key string
	n   int
}

func (f fileSamples) Samples(ctx context.Context) ([]samples.Point, error) {
	pts, err := readSamples(ctx, f.src, f.key)
	if err != nil {
		return nil, err
	}
	if f.n > 0 && len(pts) > f.n {
		pts = pts[:f.n]
	}
	return pts, nil
}
