package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/creditmap/internal/geo"
	"github.com/mind-engage/creditmap/internal/storage"
)

// ErrLoad wraps any failure of the startup datasets.
var ErrLoad = errors.New("dataset load failed")

// Source opens a dataset by key.
type Source interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// BlobSource reads keys from a blob store, or over HTTP when the key is an
// absolute http(s) URL.
type BlobSource struct {
	Store  storage.BlobStore
	Client *http.Client
}

func (s BlobSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return s.fetch(ctx, key)
	}
	if s.Store == nil {
		return nil, fmt.Errorf("no blob store for %q", key)
	}
	return s.Store.Get(key)
}

func (s BlobSource) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	c := s.Client
	if c == nil {
		c = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode/100 != 2 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, res.Status)
	}
	return res.Body, nil
}

// Bundle is the joined result of a successful load.
type Bundle struct {
	Features []geo.Feature
	Records  []StateRecord
	Report   ParseReport
	Index    *Index
	LoadedAt time.Time
}

type Loader struct {
	Source       Source
	GeoKey       string
	FinancialKey string
	Log          *zap.Logger
}

// Load fetches both datasets in parallel and only returns once both are in.
// If either fails the whole load fails; there is no partial bundle.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	var (
		features []geo.Feature
		records  []StateRecord
		report   ParseReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.read(gctx, l.GeoKey)
		if err != nil {
			return fmt.Errorf("%w: boundaries %q: %w", ErrLoad, l.GeoKey, err)
		}
		fs, err := geo.Decode(data)
		if err != nil {
			return fmt.Errorf("%w: boundaries %q: %w", ErrLoad, l.GeoKey, err)
		}
		features = fs
		return nil
	})
	g.Go(func() error {
		data, err := l.read(gctx, l.FinancialKey)
		if err != nil {
			return fmt.Errorf("%w: financial %q: %w", ErrLoad, l.FinancialKey, err)
		}
		recs, rep, err := ParseFinancialCSV(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%w: financial %q: %w", ErrLoad, l.FinancialKey, err)
		}
		records, report = recs, rep
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("dataset load failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	for _, bad := range report.Invalid {
		log.Warn("non-numeric financial cell",
			zap.Int("row", bad.Row), zap.String("column", string(bad.Column)), zap.String("value", bad.Value))
	}
	b := &Bundle{
		Features: features,
		Records:  records,
		Report:   report,
		Index:    BuildIndex(records),
		LoadedAt: time.Now(),
	}
	log.Info("datasets loaded",
		zap.Int("features", len(features)),
		zap.Int("records", len(records)),
		zap.Int("indexed", b.Index.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return b, nil
}

func (l *Loader) read(ctx context.Context, key string) ([]byte, error) {
	if l.Source == nil {
		return nil, errors.New("no dataset source")
	}
	rc, err := l.Source.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
