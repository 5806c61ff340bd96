package form

import (
	"net/url"
	"strings"

	"github.com/mind-engage/creditmap/internal/predict"
)

// CreditForm holds the raw credit score inputs. TotalExistingLoanAmount
// depends on LoanHistory, see ApplyLoanHistory.
type CreditForm struct {
	Age                     string
	Dependents              string
	MaritalStatus           string
	EmploymentStatus        string
	ResidentialStatus       string
	AnnualIncome            string
	MonthlyExpenses         string
	ExistingLoans           string
	OutstandingDebt         string
	BankAccountHistory      string
	LoanHistory             string
	TotalExistingLoanAmount Field
}

// NewCreditForm returns the initial form: loan history unanswered, loan
// amount enabled and required.
func NewCreditForm() CreditForm {
	return CreditForm{TotalExistingLoanAmount: Field{Required: true}}
}

func ParseCreditForm(v url.Values) CreditForm {
	f := NewCreditForm()
	for _, in := range f.inputs() {
		*in.raw = lookup(v, in.key, in.id)
	}
	f.TotalExistingLoanAmount.Value = lookup(v, "Total_Existing_Loan_Amount", "credit_loan_total")
	f.ApplyLoanHistory(lookup(v, "Loan_History", "loan_history"))
	return f
}

func (f *CreditForm) inputs() []input {
	return []input{
		{"Age", "credit_age", &f.Age},
		{"Dependents", "credit_dependents", &f.Dependents},
		{"Marital_Status", "credit_marital", &f.MaritalStatus},
		{"Employment_Status", "employment", &f.EmploymentStatus},
		{"Residential_Status", "credit_residence", &f.ResidentialStatus},
		{"Annual_Income", "credit_income", &f.AnnualIncome},
		{"Monthly_Expenses", "expenses", &f.MonthlyExpenses},
		{"Existing_Loans", "existing_loans", &f.ExistingLoans},
		{"Outstanding_Debt", "credit_debt", &f.OutstandingDebt},
		{"Bank_Account_History", "bank_history", &f.BankAccountHistory},
	}
}

// LoanHistoryRule is the dependent field rule on its own: answering "No"
// forces the loan amount to 0 and disables it, answering "Yes" enables it,
// makes it required and clears a previously forced value. Any other answer
// leaves the field alone.
func LoanHistoryRule(toggle string, cur Field) Field {
	switch normalizeToggle(toggle) {
	case "No":
		return Field{Value: "0", Disabled: true}
	case "Yes":
		v := cur.Value
		if cur.Disabled {
			v = ""
		}
		return Field{Value: v, Required: true}
	}
	return cur
}

// ApplyLoanHistory records the toggle and updates the dependent field.
func (f *CreditForm) ApplyLoanHistory(toggle string) {
	f.LoanHistory = normalizeToggle(toggle)
	f.TotalExistingLoanAmount = LoanHistoryRule(toggle, f.TotalExistingLoanAmount)
}

func normalizeToggle(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "1", "true":
		return "Yes"
	case "no", "n", "0", "false":
		return "No"
	}
	return ""
}

func (f CreditForm) project() (predict.CreditRequest, FieldErrors) {
	fe := FieldErrors{}
	in := f.inputs()
	req := predict.CreditRequest{
		Age:                fe.number(in[0]),
		Dependents:         fe.number(in[1]),
		MaritalStatus:      fe.choice(in[2]),
		EmploymentStatus:   fe.choice(in[3]),
		ResidentialStatus:  fe.choice(in[4]),
		AnnualIncome:       fe.number(in[5]),
		MonthlyExpenses:    fe.number(in[6]),
		ExistingLoans:      fe.number(in[7]),
		OutstandingDebt:    fe.number(in[8]),
		BankAccountHistory: fe.number(in[9]),
	}
	switch f.LoanHistory {
	case "Yes":
		req.LoanHistory = 1
	case "No":
	default:
		fe["Loan_History"] = "is required"
	}
	amt := f.TotalExistingLoanAmount
	if amt.Disabled {
		req.TotalExistingLoanAmount = 0
	} else {
		v := amt.Value
		req.TotalExistingLoanAmount = fe.number(input{key: "Total_Existing_Loan_Amount", raw: &v})
	}
	return req, fe
}

func (f CreditForm) Validate() FieldErrors {
	if _, fe := f.project(); len(fe) > 0 {
		return fe
	}
	return nil
}

func (f CreditForm) ToRequest() (predict.CreditRequest, error) {
	req, fe := f.project()
	if len(fe) > 0 {
		return predict.CreditRequest{}, fe
	}
	return req, nil
}
