package form

import (
	"net/url"

	"github.com/mind-engage/creditmap/internal/predict"
)

// LoanForm holds the raw loan approval inputs.
type LoanForm struct {
	Age                     string
	Dependents              string
	AnnualIncome            string
	CreditScore             string
	TotalExistingLoanAmount string
	OutstandingDebt         string
	MaritalStatus           string
	Education               string
	ResidentialStatus       string
}

// ParseLoanForm accepts either request keys (Annual_Income) or the page's
// input ids (income).
func ParseLoanForm(v url.Values) LoanForm {
	var f LoanForm
	for _, in := range f.inputs() {
		*in.raw = lookup(v, in.key, in.id)
	}
	return f
}

func (f *LoanForm) inputs() []input {
	return []input{
		{"Age", "age", &f.Age},
		{"Dependents", "dependents", &f.Dependents},
		{"Annual_Income", "income", &f.AnnualIncome},
		{"Credit_Score", "credit", &f.CreditScore},
		{"Total_Existing_Loan_Amount", "loan_total", &f.TotalExistingLoanAmount},
		{"Outstanding_Debt", "debt", &f.OutstandingDebt},
		{"Marital_Status", "marital", &f.MaritalStatus},
		{"Education", "education", &f.Education},
		{"Residential_Status", "residence", &f.ResidentialStatus},
	}
}

func (f LoanForm) project() (predict.LoanRequest, FieldErrors) {
	fe := FieldErrors{}
	in := f.inputs()
	req := predict.LoanRequest{
		Age:                     fe.number(in[0]),
		Dependents:              fe.number(in[1]),
		AnnualIncome:            fe.number(in[2]),
		CreditScore:             fe.number(in[3]),
		TotalExistingLoanAmount: fe.number(in[4]),
		OutstandingDebt:         fe.number(in[5]),
		MaritalStatus:           fe.choice(in[6]),
		Education:               fe.choice(in[7]),
		ResidentialStatus:       fe.choice(in[8]),
	}
	return req, fe
}

// Validate returns nil when every field is usable.
func (f LoanForm) Validate() FieldErrors {
	if _, fe := f.project(); len(fe) > 0 {
		return fe
	}
	return nil
}

// ToRequest validates and projects the form.
func (f LoanForm) ToRequest() (predict.LoanRequest, error) {
	req, fe := f.project()
	if len(fe) > 0 {
		return predict.LoanRequest{}, fe
	}
	return req, nil
}
