// Package predict talks to the remote loan approval, credit score and sample
// services.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/mind-engage/creditmap/internal/samples"
)

var (
	// ErrMalformed marks a response that decoded but carried no usable value.
	ErrMalformed = errors.New("predict: malformed response")
	// ErrRejected marks a response where the service reported an error.
	ErrRejected = errors.New("predict: rejected by service")
	// ErrNotConfigured is returned when the endpoint URL is empty.
	ErrNotConfigured = errors.New("predict: endpoint not configured")
)

type LoanRequest struct {
	Age                     float64 `json:"Age"`
	Dependents              float64 `json:"Dependents"`
	AnnualIncome            float64 `json:"Annual_Income"`
	CreditScore             float64 `json:"Credit_Score"`
	TotalExistingLoanAmount float64 `json:"Total_Existing_Loan_Amount"`
	OutstandingDebt         float64 `json:"Outstanding_Debt"`
	MaritalStatus           string  `json:"Marital_Status"`
	Education               string  `json:"Education"`
	ResidentialStatus       string  `json:"Residential_Status"`
}

type CreditRequest struct {
	Age                     float64 `json:"Age"`
	Dependents              float64 `json:"Dependents"`
	MaritalStatus           string  `json:"Marital_Status"`
	EmploymentStatus        string  `json:"Employment_Status"`
	ResidentialStatus       string  `json:"Residential_Status"`
	AnnualIncome            float64 `json:"Annual_Income"`
	MonthlyExpenses         float64 `json:"Monthly_Expenses"`
	ExistingLoans           float64 `json:"Existing_Loans"`
	TotalExistingLoanAmount float64 `json:"Total_Existing_Loan_Amount"`
	OutstandingDebt         float64 `json:"Outstanding_Debt"`
	BankAccountHistory      float64 `json:"Bank_Account_History"`
	LoanHistory             int     `json:"Loan_History"`
}

type Config struct {
	LoanURL    string
	CreditURL  string
	SamplesURL string
	Timeout    time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		t := cfg.Timeout
		if t <= 0 {
			t = 10 * time.Second
		}
		hc = &http.Client{Timeout: t}
	}
	return &Client{cfg: cfg, http: hc}
}

// PredictLoan returns the approval probability in [0,1].
func (c *Client) PredictLoan(ctx context.Context, req LoanRequest) (float64, error) {
	var out struct {
		Probability *float64 `json:"probability"`
		Error       string   `json:"error"`
	}
	if err := c.post(ctx, c.cfg.LoanURL, req, &out); err != nil {
		return 0, fmt.Errorf("loan prediction: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("loan prediction: %w: %s", ErrRejected, out.Error)
	}
	if out.Probability == nil || !finite(*out.Probability) || *out.Probability < 0 || *out.Probability > 1 {
		return 0, fmt.Errorf("loan prediction: %w: probability missing or outside [0,1]", ErrMalformed)
	}
	return *out.Probability, nil
}

// PredictCredit returns the raw predicted credit score.
func (c *Client) PredictCredit(ctx context.Context, req CreditRequest) (float64, error) {
	var out struct {
		Score *float64 `json:"score"`
		Error string   `json:"error"`
	}
	if err := c.post(ctx, c.cfg.CreditURL, req, &out); err != nil {
		return 0, fmt.Errorf("credit prediction: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("credit prediction: %w: %s", ErrRejected, out.Error)
	}
	if out.Score == nil || !finite(*out.Score) {
		return 0, fmt.Errorf("credit prediction: %w: score missing", ErrMalformed)
	}
	return *out.Score, nil
}

// Samples fetches a fresh batch of applicant samples.
func (c *Client) Samples(ctx context.Context) ([]samples.Point, error) {
	if c.cfg.SamplesURL == "" {
		return nil, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SamplesURL, nil)
	if err != nil {
		return nil, err
	}
	var ws []samples.Wire
	if err := c.do(req, &ws); err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}
	pts, err := samples.FromWire(ws)
	if err != nil {
		return nil, fmt.Errorf("samples: %w: %w", ErrMalformed, err)
	}
	return pts, nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	if url == "" {
		return ErrNotConfigured
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		// services report bad categorical values as {"error": ...} with a 4xx
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, e.Error)
		}
		return fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
