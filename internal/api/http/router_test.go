package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/creditmap/internal/auth"
	"github.com/mind-engage/creditmap/internal/config"
	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/dataset"
	"github.com/mind-engage/creditmap/internal/predict"
	"github.com/mind-engage/creditmap/internal/samples"
	"github.com/mind-engage/creditmap/internal/storage"
)

const statesGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"Ohio"},"geometry":{"type":"Polygon","coordinates":[[[-84,39],[-81,39],[-81,41],[-84,41],[-84,39]]]}},
 {"type":"Feature","properties":{"name":"Iowa"},"geometry":{"type":"Polygon","coordinates":[[[-96,41],[-91,41],[-91,43],[-96,43],[-96,41]]]}}
]}`

const profileCSV = "State,Avg FICO Score,Avg Credit Card Debt,Avg Income 2021,Credit Card Debt to Income Ratio\n" +
	"Ohio,715,5000,60000,0.0833\n" +
	"Iowa,730,4000,65000,0.0615\n"

type memSource map[string]string

func (m memSource) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s, ok := m[key]
	if !ok {
		return nil, errors.New("missing " + key)
	}
	return io.NopCloser(strings.NewReader(s)), nil
}

type stubPredictor struct {
	mu          sync.Mutex
	calls       int
	probability float64
	err         error
}

func (s *stubPredictor) PredictLoan(context.Context, predict.LoanRequest) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.probability, s.err
}

func (s *stubPredictor) PredictCredit(context.Context, predict.CreditRequest) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return 700, s.err
}

type stubSamples []samples.Point

func (s stubSamples) Samples(context.Context) ([]samples.Point, error) { return s, nil }

const secret = "test-secret"

type fixture struct {
	srv   *httptest.Server
	board *dashboard.Board
	pred  *stubPredictor
	auth  *auth.AuthService
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, loaded bool) *fixture {
	t.Helper()
	pred := &stubPredictor{probability: 0.8}
	b, err := dashboard.New(dashboard.Options{
		Loader: &dataset.Loader{
			Source:       memSource{"states.json": statesGeoJSON, "profile.csv": profileCSV},
			GeoKey:       "states.json",
			FinancialKey: "profile.csv",
		},
		Predictor: pred,
		Samples: stubSamples{
			{CreditScore: 700, AnnualIncome: 50000, Approved: true},
			{CreditScore: 550, AnnualIncome: 20000},
		},
	})
	require.NoError(t, err)
	if loaded {
		require.NoError(t, b.Load(context.Background()))
	}
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	as := auth.NewAuthService(secret)
	cfg := config.Load(config.NewViper())
	cfg.EnableLocalAuth = true
	core, logs := observer.New(zap.InfoLevel)
	r := NewRouter(Deps{
		Log:      zap.New(core),
		Config:   cfg,
		Board:    b,
		Blobs:    bs,
		Auth:     as,
		Accounts: auth.Accounts{"ops": {PassHash: string(hash), Role: "operator"}},
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, board: b, pred: pred, auth: as, logs: logs}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}

const loanJSON = `{"Age":35,"Dependents":1,"Annual_Income":50000,"Credit_Score":700,
 "Total_Existing_Loan_Amount":1000,"Outstanding_Debt":200,
 "Marital_Status":"Single","Education":"Graduate","Residential_Status":"Rent"}`

func TestPredictLoan(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodPost, "/api/predict/loan", loanJSON, "")
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var out dashboard.Outcome
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.InDelta(t, 0.8, out.Reading.Raw, 1e-9)
	assert.Equal(t, "Excellent", out.Reading.Category)

	res, body = f.do(t, http.MethodGet, "/gauges/loan.svg", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/svg+xml", res.Header.Get("Content-Type"))
	assert.Contains(t, body, "Approval Probability: 80.0%")
}

func TestPredictLoan_InvalidFormMakesNoCall(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodPost, "/api/predict/loan", `{"Age":"abc","Dependents":-1}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	var out struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "must be a number", out.Errors["Age"])
	assert.Equal(t, "must not be negative", out.Errors["Dependents"])
	assert.Equal(t, "is required", out.Errors["Education"])
	assert.Zero(t, f.pred.calls)
}

func TestPredictLoan_UpstreamFailureKeepsGauge(t *testing.T) {
	f := newFixture(t, true)
	f.pred.err = predict.ErrRejected

	res, _ := f.do(t, http.MethodPost, "/api/predict/loan", loanJSON, "")
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)

	_, body := f.do(t, http.MethodGet, "/gauges/loan.svg", "", "")
	assert.Contains(t, body, "Approval Probability: 50.0%")
}

func TestPredictCredit_FormEncoded(t *testing.T) {
	f := newFixture(t, true)
	v := url.Values{
		"Age": {"40"}, "Dependents": {"0"}, "Marital_Status": {"Married"},
		"Employment_Status": {"Employed"}, "Residential_Status": {"Own"},
		"Annual_Income": {"90000"}, "Monthly_Expenses": {"2000"}, "Existing_Loans": {"1"},
		"Outstanding_Debt": {"5000"}, "Bank_Account_History": {"10"}, "Loan_History": {"No"},
	}
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/predict/credit", strings.NewReader(v.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	_, body := f.do(t, http.MethodGet, "/gauges/credit.svg", "", "")
	assert.Contains(t, body, "Predicted Credit Score: 700 (Good)")
}

func TestSVGRoutes(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodGet, "/map.svg", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, strings.Count(body, `class="state"`))

	res, _ = f.do(t, http.MethodGet, "/scatter.svg", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = f.do(t, http.MethodGet, "/gauges/map.svg", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = f.do(t, http.MethodGet, "/gauges/speed.svg", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStatesAndReadiness(t *testing.T) {
	f := newFixture(t, false)

	res, _ := f.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	res, _ = f.do(t, http.MethodGet, "/api/states", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	require.NoError(t, f.board.Load(context.Background()))

	res, _ = f.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body := f.do(t, http.MethodGet, "/api/states", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		States []dataset.StateRecord `json:"states"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.States, 2)
	assert.Equal(t, "Iowa", list.States[0].State)

	res, body = f.do(t, http.MethodGet, "/api/states/Ohio", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"ficoScore":715`)

	res, _ = f.do(t, http.MethodGet, "/api/states/Atlantis", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTooltip(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodPost, "/api/tooltip",
		`{"widget":"map","event":{"kind":"enter","target":"Ohio","x":100,"y":100}}`, "")
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var out struct {
		State struct {
			Visible bool    `json:"visible"`
			X       float64 `json:"x"`
			Y       float64 `json:"y"`
		} `json:"state"`
		Effects []struct {
			Kind    string `json:"kind"`
			Content string `json:"content"`
		} `json:"effects"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.State.Visible)
	assert.Equal(t, 110.0, out.State.X)
	assert.Equal(t, 72.0, out.State.Y)
	require.NotEmpty(t, out.Effects)
	assert.Equal(t, "show", out.Effects[0].Kind)
	assert.True(t, strings.HasPrefix(out.Effects[0].Content, "Ohio\nFICO Score: 715"))

	res, _ = f.do(t, http.MethodPost, "/api/tooltip", `{"widget":"pie","event":{"kind":"leave"}}`, "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLoanHistoryRule(t *testing.T) {
	f := newFixture(t, true)

	_, body := f.do(t, http.MethodPost, "/api/forms/loan/history", `{"Loan_History":"No","value":"1200"}`, "")
	assert.JSONEq(t, `{"value":"0","disabled":true,"required":false}`, body)

	_, body = f.do(t, http.MethodPost, "/api/forms/loan/history", `{"Loan_History":"Yes","value":"0","disabled":true}`, "")
	assert.JSONEq(t, `{"value":"","disabled":false,"required":true}`, body)
}

func TestGenerateScatter(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodPost, "/api/scatter/generate", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, `"count":2`)

	_, body = f.do(t, http.MethodGet, "/scatter.svg", "", "")
	assert.Equal(t, 2, strings.Count(body, `class="data-point`))
}

func TestPage(t *testing.T) {
	f := newFixture(t, true)

	res, body := f.do(t, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `id="loan-form"`)
	assert.Contains(t, body, `id="credit-form"`)
	assert.Contains(t, body, `class="state"`)
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture(t, false)

	res, _ := f.do(t, http.MethodPost, "/admin/reload", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	analyst, err := f.auth.IssueJWT("ann", "analyst")
	require.NoError(t, err)
	res, _ = f.do(t, http.MethodPost, "/admin/reload", "", analyst)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, body := f.do(t, http.MethodPost, "/auth/login", `{"username":"ops","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var login struct {
		Token string `json:"access_token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &login))
	assert.Equal(t, "operator", login.Role)

	res, body = f.do(t, http.MethodPost, "/admin/reload", "", login.Token)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.True(t, f.board.Ready())

	res, body = f.do(t, http.MethodPost, "/admin/snapshots", "", login.Token)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Contains(t, body, "map.svg")

	for _, msg := range []string{"dataset reload requested", "snapshot stored"} {
		entries := f.logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "ops", entries[0].ContextMap()["subject"], msg)
	}

	res, body = f.do(t, http.MethodGet, "/admin/snapshots", "", analystTok(t, f))
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var snaps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &snaps))
	assert.Len(t, snaps, 4)

	res, _ = f.do(t, http.MethodPost, "/auth/login", `{"username":"ops","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func analystTok(t *testing.T, f *fixture) string {
	t.Helper()
	tok, err := f.auth.IssueJWT("ann", "analyst")
	require.NoError(t, err)
	return tok
}

func TestUploadAndServeAsset(t *testing.T) {
	f := newFixture(t, true)
	ops, err := f.auth.IssueJWT("ops", "operator")
	require.NoError(t, err)

	res, body := f.do(t, http.MethodPut, "/admin/datasets/data/profile.csv", profileCSV, ops)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	uploads := f.logs.FilterMessage("dataset uploaded").All()
	require.Len(t, uploads, 1)
	assert.Equal(t, "ops", uploads[0].ContextMap()["subject"])
	assert.Equal(t, "data/profile.csv", uploads[0].ContextMap()["key"])

	res, body = f.do(t, http.MethodGet, "/assets/data/profile.csv", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, profileCSV, body)

	res, _ = f.do(t, http.MethodGet, "/assets/data/missing.csv", "", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
