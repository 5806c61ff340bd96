package http

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dashboard"
	"github.com/mind-engage/creditmap/internal/form"
	"github.com/mind-engage/creditmap/internal/predict"
)

// formValues reads either a JSON object or an urlencoded/multipart form.
func formValues(r *http.Request) (url.Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		return form.ValuesFromJSON(r.Body)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// predictionError maps a prediction failure onto a response: 422 for form
// errors (no upstream call was made), 502 for anything the service did.
func predictionError(w http.ResponseWriter, log *zap.Logger, err error) {
	var fe form.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe})
	case errors.Is(err, predict.ErrRejected), errors.Is(err, predict.ErrMalformed):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, predict.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Warn("prediction upstream", zap.Error(err))
		writeError(w, http.StatusBadGateway, "prediction service unavailable")
	}
}

// POST /api/predict/loan
func PredictLoanHandler(b *dashboard.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := formValues(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err := b.PredictLoan(r.Context(), form.ParseLoanForm(v))
		if err != nil {
			predictionError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /api/predict/credit
func PredictCreditHandler(b *dashboard.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := formValues(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err := b.PredictCredit(r.Context(), form.ParseCreditForm(v))
		if err != nil {
			predictionError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /api/forms/loan/history  {"Loan_History":"No","value":"1200","disabled":false}
// Applies the loan history rule to the loan amount field and returns the
// field's new state.
func LoanHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := formValues(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cur := form.Field{
			Value:    v.Get("value"),
			Disabled: v.Get("disabled") == "Yes" || v.Get("disabled") == "true",
			Required: true,
		}
		if s := v.Get("required"); s != "" {
			cur.Required = s == "Yes" || s == "true"
		}
		writeJSON(w, http.StatusOK, form.LoanHistoryRule(v.Get("Loan_History"), cur))
	}
}
