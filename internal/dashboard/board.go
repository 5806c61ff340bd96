// Package dashboard owns the widgets and serializes every mutation of them.
// Upstream calls run outside the lock; only the redraw that follows a
// successful call takes it, so redraws happen in lock acquisition order and
// a failed call leaves the previous picture untouched.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/form"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/metrics"
	"github.com/mind-engage/creditmap/internal/predict"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/scale"
	"github.com/mind-engage/creditmap/internal/storage"
	"github.com/mind-engage/creditmap/internal/theme"
	"github.com/mind-engage/creditmap/internal/tooltip"
	"github.com/mind-engage/creditmap/internal/view"
)

// Widget names one of the dashboard's views.
type Widget string

const (
	WidgetMap     Widget = "map"
	WidgetScatter Widget = "scatter"
	WidgetLoan    Widget = "loan"
	WidgetCredit  Widget = "credit"
)

var Widgets = []Widget{WidgetMap, WidgetScatter, WidgetLoan, WidgetCredit}

var (
	ErrUnknownWidget = errors.New("unknown widget")
	// ErrNotLoaded is returned while no dataset load has succeeded.
	ErrNotLoaded = errors.New("datasets not loaded")
)

type Predictor interface {
	PredictLoan(ctx context.Context, req predict.LoanRequest) (float64, error)
	PredictCredit(ctx context.Context, req predict.CreditRequest) (float64, error)
}

type SampleSource interface {
	Samples(ctx context.Context) ([]samples.Point, error)
}

type Recorder interface {
	Append(ctx context.Context, rec history.Record) (history.Record, error)
}

type Options struct {
	Loader    *dataset.Loader
	Theme     *theme.Theme
	Predictor Predictor
	Samples   SampleSource
	History   Recorder         // optional
	Metrics   *metrics.Metrics // optional
	Log       *zap.Logger
}

type Board struct {
	loader    *dataset.Loader
	predictor Predictor
	samples   SampleSource
	history   Recorder
	metrics   *metrics.Metrics
	log       *zap.Logger

	loads atomic.Uint64 // load generation, bumped before each fetch

	mu      sync.Mutex
	painted uint64 // generation of bundle
	bundle  *dataset.Bundle
	mapView *view.Map
	scatter *view.Scatter
	points  []samples.Point
	loan    *view.Gauge
	credit  *view.Gauge
}

// New builds every widget and paints the gauges at their resting values:
// 0.5 for the loan gauge and the range midpoint for the credit gauge.
func New(opts Options) (*Board, error) {
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	b := &Board{
		loader:    opts.Loader,
		predictor: opts.Predictor,
		samples:   opts.Samples,
		history:   opts.History,
		metrics:   opts.Metrics,
		log:       log,
	}
	var err error
	if b.mapView, err = view.NewMap(th.Map); err != nil {
		return nil, err
	}
	if b.scatter, err = view.NewScatter(th.Scatter); err != nil {
		return nil, err
	}
	if b.loan, err = view.NewGauge(th.LoanGauge); err != nil {
		return nil, err
	}
	if b.credit, err = view.NewGauge(th.CreditGauge); err != nil {
		return nil, err
	}
	if err := b.loan.Update(0.5); err != nil {
		return nil, err
	}
	if err := b.credit.Update(b.credit.Midpoint()); err != nil {
		return nil, err
	}
	return b, nil
}

// Load fetches both datasets and repaints the map. On failure the map keeps
// whatever it showed before, which on first load is nothing. When loads
// overlap, a bundle fetched by an earlier call never replaces one from a
// later call.
func (b *Board) Load(ctx context.Context) error {
	if b.loader == nil {
		return fmt.Errorf("%w: no loader configured", dataset.ErrLoad)
	}
	gen := b.loads.Add(1)
	bundle, err := b.loader.Load(ctx)
	b.metrics.DatasetLoad(err)
	if err != nil {
		b.log.Error("dataset load failed, map not rendered", zap.Error(err))
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen < b.painted {
		b.log.Info("stale dataset load dropped", zap.Uint64("generation", gen), zap.Uint64("painted", b.painted))
		return nil
	}
	if err := b.mapView.Update(view.MapData{Features: bundle.Features, Index: bundle.Index}); err != nil {
		return fmt.Errorf("paint map: %w", err)
	}
	b.bundle, b.painted = bundle, gen

	missing := 0
	for _, f := range bundle.Features {
		if _, ok := bundle.Index.Lookup(f.Name); !ok {
			missing++
		}
	}
	b.metrics.MapPaint(len(bundle.Features), missing)
	b.metrics.Redraw(string(WidgetMap))
	b.log.Info("map painted",
		zap.Int("states", len(bundle.Features)),
		zap.Int("without_record", missing),
		zap.Int("invalid_cells", len(bundle.Report.Invalid)))
	return nil
}

// Ready reports whether a load has succeeded.
func (b *Board) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bundle != nil
}

// States returns the indexed records sorted by name.
func (b *Board) States() ([]dataset.StateRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bundle == nil {
		return nil, ErrNotLoaded
	}
	return b.bundle.Index.Records(), nil
}

func (b *Board) State(name string) (dataset.StateRecord, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bundle == nil {
		return dataset.StateRecord{}, false
	}
	return b.bundle.Index.Lookup(name)
}

// Report returns the parse report of the current financial dataset.
func (b *Board) Report() (dataset.ParseReport, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bundle == nil {
		return dataset.ParseReport{}, false
	}
	return b.bundle.Report, true
}

// Outcome is the result of a prediction that reached the gauge.
type Outcome struct {
	Kind     history.Kind  `json:"kind"`
	Reading  scale.Reading `json:"reading"`
	RecordID string        `json:"recordId,omitempty"`
}

// PredictLoan validates the form, asks the loan service and redraws the loan
// gauge. Validation errors are returned as form.FieldErrors before any
// network traffic.
func (b *Board) PredictLoan(ctx context.Context, f form.LoanForm) (Outcome, error) {
	req, err := f.ToRequest()
	if err != nil {
		return Outcome{}, err
	}
	start := time.Now()
	p, err := b.predictor.PredictLoan(ctx, req)
	b.metrics.ObserveUpstream(string(history.KindLoan), start)
	b.metrics.Prediction(string(history.KindLoan), err)
	if err != nil {
		b.log.Warn("loan prediction failed", zap.Error(err))
		return Outcome{}, err
	}
	return b.paintGauge(ctx, history.KindLoan, b.loan, p, req)
}

func (b *Board) PredictCredit(ctx context.Context, f form.CreditForm) (Outcome, error) {
	req, err := f.ToRequest()
	if err != nil {
		return Outcome{}, err
	}
	start := time.Now()
	s, err := b.predictor.PredictCredit(ctx, req)
	b.metrics.ObserveUpstream(string(history.KindCredit), start)
	b.metrics.Prediction(string(history.KindCredit), err)
	if err != nil {
		b.log.Warn("credit prediction failed", zap.Error(err))
		return Outcome{}, err
	}
	return b.paintGauge(ctx, history.KindCredit, b.credit, s, req)
}

func (b *Board) paintGauge(ctx context.Context, kind history.Kind, g *view.Gauge, raw float64, req any) (Outcome, error) {
	b.mu.Lock()
	err := g.Update(raw)
	r, _ := g.Reading()
	b.mu.Unlock()
	if err != nil {
		return Outcome{}, fmt.Errorf("paint %s gauge: %w", kind, err)
	}
	b.metrics.Redraw(string(kind))
	out := Outcome{Kind: kind, Reading: r}

	if b.history != nil {
		body, _ := json.Marshal(req)
		rec, err := b.history.Append(ctx, history.Record{
			Kind: kind, RequestJSON: body, Result: raw, Category: r.Category,
		})
		if err != nil {
			// gauge already updated, a history failure is only logged
			b.log.Warn("record prediction", zap.String("kind", string(kind)), zap.Error(err))
		} else {
			out.RecordID = rec.ID
		}
	}
	return out, nil
}

// GenerateScatter fetches a fresh sample batch and replaces every point.
func (b *Board) GenerateScatter(ctx context.Context) ([]samples.Point, error) {
	if b.samples == nil {
		return nil, errors.New("no sample source configured")
	}
	start := time.Now()
	pts, err := b.samples.Samples(ctx)
	b.metrics.ObserveUpstream("samples", start)
	if err != nil {
		b.log.Warn("sample fetch failed", zap.Error(err))
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.scatter.Update(pts); err != nil {
		return nil, fmt.Errorf("paint scatter: %w", err)
	}
	b.points = pts
	b.metrics.Redraw(string(WidgetScatter))
	return pts, nil
}

// Points returns the batch currently plotted.
func (b *Board) Points() []samples.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]samples.Point(nil), b.points...)
}

// WriteSVG serializes one widget.
func (b *Board) WriteSVG(w io.Writer, name Widget) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.widget(name)
	if err != nil {
		return err
	}
	return v.Root().WriteSVG(w)
}

func (b *Board) widget(name Widget) (view.Widget, error) {
	switch name {
	case WidgetMap:
		return b.mapView, nil
	case WidgetScatter:
		return b.scatter, nil
	case WidgetLoan:
		return b.loan, nil
	case WidgetCredit:
		return b.credit, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
}

// Tooltip steps the hover machine for a widget. The map resolves states
// against the current index; gauges resolve segment labels to their tips.
func (b *Board) Tooltip(name Widget, s tooltip.State, e tooltip.Event) (tooltip.State, []tooltip.Effect, error) {
	b.mu.Lock()
	var m tooltip.Machine
	switch name {
	case WidgetMap:
		var ix *dataset.Index
		if b.bundle != nil {
			ix = b.bundle.Index
		}
		m = tooltip.Machine{Content: tooltip.StateContent(ix), Offset: tooltip.MapOffset}
	case WidgetLoan:
		m = tooltip.Machine{Content: tooltip.StaticContent(b.loan.Tips()), Offset: tooltip.GaugeOffset}
	case WidgetCredit:
		m = tooltip.Machine{Content: tooltip.StaticContent(b.credit.Tips()), Offset: tooltip.GaugeOffset}
	default:
		b.mu.Unlock()
		return s, nil, fmt.Errorf("%w: %q has no tooltip", ErrUnknownWidget, name)
	}
	b.mu.Unlock()
	next, effects := m.Step(s, e)
	return next, effects, nil
}

// Snapshot stores every widget's current SVG under snapshots/<stamp>/.
func (b *Board) Snapshot(store storage.BlobStore, at time.Time) ([]storage.Info, error) {
	prefix := "snapshots/" + at.UTC().Format("20060102T150405Z") + "/"
	var out []storage.Info
	for _, w := range Widgets {
		var buf bytes.Buffer
		if err := b.WriteSVG(&buf, w); err != nil {
			return out, err
		}
		key, err := store.Put(prefix+string(w)+".svg", &buf)
		if err != nil {
			return out, fmt.Errorf("store %s snapshot: %w", w, err)
		}
		info, err := store.Stat(key)
		if err != nil {
			return out, err
		}
		out = append(out, info)
	}
	b.log.Info("snapshot stored", zap.String("prefix", prefix), zap.Int("widgets", len(out)))
	return out, nil
}

// Watch reloads the datasets whenever one of files changes. It blocks until
// ctx is done.
func (b *Board) Watch(ctx context.Context, files []string, debounce time.Duration) error {
	return dataset.Watch(ctx, files, debounce, func() {
		if err := b.Load(ctx); err != nil {
			b.log.Warn("reload after change failed", zap.Error(err))
		}
	}, b.log)
}
