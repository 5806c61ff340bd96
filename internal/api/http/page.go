package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/mind-engage/creditmap/internal/dashboard"
)

//go:embed templates/index.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

type inputSpec struct {
	Key, Label string
	Number     bool
}

var loanInputs = []inputSpec{
	{"Age", "Age", true},
	{"Dependents", "Dependents", true},
	{"Annual_Income", "Annual income", true},
	{"Credit_Score", "Credit score", true},
	{"Total_Existing_Loan_Amount", "Total existing loan amount", true},
	{"Outstanding_Debt", "Outstanding debt", true},
	{"Marital_Status", "Marital status", false},
	{"Education", "Education", false},
	{"Residential_Status", "Residential status", false},
}

var creditInputs = []inputSpec{
	{"Age", "Age", true},
	{"Dependents", "Dependents", true},
	{"Marital_Status", "Marital status", false},
	{"Employment_Status", "Employment status", false},
	{"Residential_Status", "Residential status", false},
	{"Annual_Income", "Annual income", true},
	{"Monthly_Expenses", "Monthly expenses", true},
	{"Existing_Loans", "Existing loans", true},
	{"Outstanding_Debt", "Outstanding debt", true},
	{"Bank_Account_History", "Bank account history (years)", true},
}

type pageData struct {
	Title                    string
	Ready                    bool
	Map, Scatter             template.HTML
	Loan, Credit             template.HTML
	LoanFields, CreditFields []inputSpec
}

// GET /
func PageHandler(b *dashboard.Board, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svg := func(name dashboard.Widget) template.HTML {
			var buf bytes.Buffer
			if err := b.WriteSVG(&buf, name); err != nil {
				log.Warn("render widget", zap.String("widget", string(name)), zap.Error(err))
				return ""
			}
			// serialized by scene, which escapes every text and attribute
			return template.HTML(buf.String())
		}
		data := pageData{
			Title:        "US Credit Map",
			Ready:        b.Ready(),
			Map:          svg(dashboard.WidgetMap),
			Scatter:      svg(dashboard.WidgetScatter),
			Loan:         svg(dashboard.WidgetLoan),
			Credit:       svg(dashboard.WidgetCredit),
			LoanFields:   loanInputs,
			CreditFields: creditInputs,
		}
		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, data); err != nil {
			log.Error("render page", zap.Error(err))
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
