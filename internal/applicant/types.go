package applicant

// #region record
// Record is the authoritative reference data for one applicant, used by
// the validators to check claimed identity and financial facts. It is
// read-only during a call; absence of a record switches the identity
// validator into fixed-reference fallback mode.
type Record struct {
	ID                     string `json:"id"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	PhoneNumber            string `json:"phone_number"`
	DateOfBirth            string `json:"date_of_birth"` // YYYY-MM-DD
	SSNLastFour            string `json:"ssn_last_four"`
	Street                 string `json:"street"`
	City                   string `json:"city"`
	State                  string `json:"state"`
	ZipCode                string `json:"zip_code"`
	Unit                   string `json:"unit,omitempty"`
	Email                  string `json:"email"`
	MonthlyIncome          int    `json:"monthly_income"`
	EmployerName           string `json:"employer_name"`
	EmploymentLengthMonths int    `json:"employment_length_months"`
}

// #endregion record
