package dashboard

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/form"
	"github.com/mind-engage/creditmap/internal/history"
	"github.com/mind-engage/creditmap/internal/predict"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/storage"
	"github.com/mind-engage/creditmap/internal/tooltip"
	"github.com/mind-engage/creditmap/internal/view"
)

const statesGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Ohio"},"geometry":{"type":"Polygon","coordinates":[[[-84,39],[-81,39],[-81,41],[-84,41],[-84,39]]]}},
 {"type":"Feature","properties":{"name":"Iowa"},"geometry":{"type":"Polygon","coordinates":[[[-96,41],[-91,41],[-91,43],[-96,43],[-96,41]]]}},
 {"type":"Feature","properties":{"name":"Puerto Nowhere"},"geometry":{"type":"Polygon","coordinates":[[[-100,35],[-99,35],[-99,36],[-100,36],[-100,35]]]}}
]}`

const profileCSV = "State,Avg FICO Score,Avg Credit Card Debt,Avg Income 2021,Credit Card Debt to Income Ratio\n" +
	"Ohio,715,5000.12,60000,0.0833\n" +
	"Iowa,730,4000,65000,0.0615\n"

type memSource map[string]string

func (m memSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s, ok := m[key]
	if !ok {
		return nil, errors.New("missing " + key)
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

type fakePredictor struct {
	mu          sync.Mutex
	calls       int
	probability float64
	score       float64
	err         error
}

func (f *fakePredictor) PredictLoan(context.Context, predict.LoanRequest) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.probability, f.err
}

func (f *fakePredictor) PredictCredit(context.Context, predict.CreditRequest) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.score, f.err
}

type fakeSamples struct {
	pts []samples.Point
	err error
}

func (f *fakeSamples) Samples(context.Context) ([]samples.Point, error) { return f.pts, f.err }

type fakeRecorder struct{ recs []history.Record }

func (f *fakeRecorder) Append(_ context.Context, r history.Record) (history.Record, error) {
	r.ID = "rec-1"
	f.recs = append(f.recs, r)
	return r, nil
}

func newBoard(t *testing.T, src memSource, p *fakePredictor, s SampleSource, rec Recorder) *Board {
	t.Helper()
	b, err := New(Options{
		Loader:    &dataset.Loader{Source: src, GeoKey: "states.json", FinancialKey: "profile.csv"},
		Predictor: p,
		Samples:   s,
		History:   rec,
	})
	require.NoError(t, err)
	return b
}

func validLoan() form.LoanForm {
	return form.ParseLoanForm(url.Values{
		"Age": {"35"}, "Dependents": {"1"}, "Annual_Income": {"50000"}, "Credit_Score": {"700"},
		"Total_Existing_Loan_Amount": {"1000"}, "Outstanding_Debt": {"200"},
		"Marital_Status": {"Single"}, "Education": {"Graduate"}, "Residential_Status": {"Rent"},
	})
}

func TestNew_DefaultGauges(t *testing.T) {
	b := newBoard(t, memSource{}, &fakePredictor{}, nil, nil)
	r, ok := b.loan.Reading()
	require.True(t, ok)
	assert.Equal(t, 0.5, r.T)
	r, ok = b.credit.Reading()
	require.True(t, ok)
	assert.Equal(t, 575.0, r.Raw)
	assert.False(t, b.Ready())
}

func TestLoad(t *testing.T) {
	b := newBoard(t, memSource{"states.json": statesGeoJSON, "profile.csv": profileCSV}, &fakePredictor{}, nil, nil)
	require.NoError(t, b.Load(context.Background()))
	assert.True(t, b.Ready())

	recs, err := b.States()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Iowa", recs[0].State)

	r, ok := b.State("Ohio")
	require.True(t, ok)
	assert.Equal(t, 715.0, r.FICOScore)

	var svg strings.Builder
	require.NoError(t, b.WriteSVG(&svg, WidgetMap))
	assert.Equal(t, 3, strings.Count(svg.String(), `class="state"`))
	assert.Contains(t, svg.String(), `fill="#ccc"`)
}

// heldSource blocks the first read of profile.csv until release is closed
// and serves the older table to it.
type heldSource struct {
	mu      sync.Mutex
	reads   int
	started chan struct{}
	release chan struct{}
}

func (h *heldSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if key != "profile.csv" {
		return io.NopCloser(strings.NewReader(statesGeoJSON)), nil
	}
	h.mu.Lock()
	h.reads++
	n := h.reads
	h.mu.Unlock()
	if n == 1 {
		close(h.started)
		<-h.release
		return io.NopCloser(strings.NewReader(profileCSV)), nil
	}
	return io.NopCloser(strings.NewReader(strings.Replace(profileCSV, "Ohio,715", "Ohio,720", 1))), nil
}

func TestLoad_OverlappingKeepsNewest(t *testing.T) {
	src := &heldSource{started: make(chan struct{}), release: make(chan struct{})}
	b, err := New(Options{
		Loader:    &dataset.Loader{Source: src, GeoKey: "states.json", FinancialKey: "profile.csv"},
		Predictor: &fakePredictor{},
	})
	require.NoError(t, err)

	older := make(chan error, 1)
	go func() { older <- b.Load(context.Background()) }()
	<-src.started

	require.NoError(t, b.Load(context.Background()))
	r, ok := b.State("Ohio")
	require.True(t, ok)
	assert.Equal(t, 720.0, r.FICOScore)

	close(src.release)
	require.NoError(t, <-older)
	r, ok = b.State("Ohio")
	require.True(t, ok)
	assert.Equal(t, 720.0, r.FICOScore)
}

func TestLoad_FailsClosed(t *testing.T) {
	b := newBoard(t, memSource{"states.json": statesGeoJSON}, &fakePredictor{}, nil, nil)
	err := b.Load(context.Background())
	require.ErrorIs(t, err, dataset.ErrLoad)
	assert.False(t, b.Ready())
	assert.Empty(t, b.mapView.Root().Children)
	_, err = b.States()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestPredictLoan_ValidationMakesNoRequest(t *testing.T) {
	p := &fakePredictor{probability: 0.9}
	b := newBoard(t, memSource{}, p, nil, nil)
	v := url.Values{"Age": {"-1"}}
	_, err := b.PredictLoan(context.Background(), form.ParseLoanForm(v))

	var fe form.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must not be negative", fe["Age"])
	assert.Zero(t, p.calls)
}

func TestPredictLoan_UpdatesGaugeAndHistory(t *testing.T) {
	p := &fakePredictor{probability: 0.573}
	rec := &fakeRecorder{}
	b := newBoard(t, memSource{}, p, nil, rec)

	out, err := b.PredictLoan(context.Background(), validLoan())
	require.NoError(t, err)
	assert.Equal(t, "Good", out.Reading.Category)
	assert.Equal(t, "rec-1", out.RecordID)
	require.Len(t, rec.recs, 1)
	assert.Equal(t, history.KindLoan, rec.recs[0].Kind)
	assert.Contains(t, string(rec.recs[0].RequestJSON), `"Credit_Score":700`)

	var svg strings.Builder
	require.NoError(t, b.WriteSVG(&svg, WidgetLoan))
	assert.Contains(t, svg.String(), "Approval Probability: 57.3%")
}

func TestPredictLoan_FailureKeepsGauge(t *testing.T) {
	p := &fakePredictor{err: predict.ErrMalformed}
	b := newBoard(t, memSource{}, p, nil, nil)
	var before strings.Builder
	require.NoError(t, b.WriteSVG(&before, WidgetLoan))

	_, err := b.PredictLoan(context.Background(), validLoan())
	require.ErrorIs(t, err, predict.ErrMalformed)

	var after strings.Builder
	require.NoError(t, b.WriteSVG(&after, WidgetLoan))
	assert.Equal(t, before.String(), after.String())
	assert.Equal(t, 1, p.calls)
}

func TestPredictCredit(t *testing.T) {
	p := &fakePredictor{score: 712}
	b := newBoard(t, memSource{}, p, nil, nil)
	f := form.ParseCreditForm(url.Values{
		"Age": {"40"}, "Dependents": {"0"}, "Marital_Status": {"Married"}, "Employment_Status": {"Employed"},
		"Residential_Status": {"Own"}, "Annual_Income": {"90000"}, "Monthly_Expenses": {"2500"},
		"Existing_Loans": {"0"}, "Outstanding_Debt": {"0"}, "Bank_Account_History": {"12"},
		"Loan_History": {"No"},
	})
	out, err := b.PredictCredit(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "Good", out.Reading.Category)
	assert.Equal(t, history.KindCredit, out.Kind)
}

func TestGenerateScatter(t *testing.T) {
	s := &fakeSamples{pts: []samples.Point{
		{CreditScore: 600, AnnualIncome: 20000},
		{CreditScore: 750, AnnualIncome: 90000, Approved: true},
	}}
	b := newBoard(t, memSource{}, &fakePredictor{}, s, nil)
	for i := 0; i < 2; i++ {
		_, err := b.GenerateScatter(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, b.scatter.Root().Count(view.PointClass))
	assert.Len(t, b.Points(), 2)

	s.err = errors.New("down")
	_, err := b.GenerateScatter(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, b.scatter.Root().Count(view.PointClass))
}

func TestTooltip(t *testing.T) {
	b := newBoard(t, memSource{"states.json": statesGeoJSON, "profile.csv": profileCSV}, &fakePredictor{}, nil, nil)
	require.NoError(t, b.Load(context.Background()))

	st, eff, err := b.Tooltip(WidgetMap, tooltip.Hidden, tooltip.Event{Kind: tooltip.Enter, Target: "Ohio", X: 100, Y: 100})
	require.NoError(t, err)
	require.True(t, st.Visible)
	assert.Contains(t, st.Content, "FICO Score: 715")
	assert.Equal(t, 110.0, st.X)
	assert.Equal(t, 72.0, st.Y)
	require.Len(t, eff, 1)

	st, _, err = b.Tooltip(WidgetMap, st, tooltip.Event{Kind: tooltip.Enter, Target: "Puerto Nowhere"})
	require.NoError(t, err)
	assert.False(t, st.Visible)

	st, _, err = b.Tooltip(WidgetLoan, tooltip.Hidden, tooltip.Event{Kind: tooltip.Enter, Target: "Fair", X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, -20.0, st.Y)
	assert.Contains(t, st.Content, "Paying off credit card debt")

	_, _, err = b.Tooltip(WidgetScatter, tooltip.Hidden, tooltip.Event{})
	assert.ErrorIs(t, err, ErrUnknownWidget)
}

func TestSnapshot(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	b := newBoard(t, memSource{}, &fakePredictor{}, nil, nil)

	infos, err := b.Snapshot(store, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, infos, 4)
	assert.Equal(t, "snapshots/20260301T120000Z/map.svg", infos[0].Key)

	rc, err := store.Get("snapshots/20260301T120000Z/credit.svg")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Predicted Credit Score: 575 (Poor)")
}

func TestWriteSVG_UnknownWidget(t *testing.T) {
	b := newBoard(t, memSource{}, &fakePredictor{}, nil, nil)
	assert.ErrorIs(t, b.WriteSVG(io.Discard, Widget("pie")), ErrUnknownWidget)
}
