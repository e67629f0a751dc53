package session

// #region awaiting-confirmation
// AwaitingConfirmation tags an open confirmation that must be resolved
// before the stage resolver advances past the gated stage.
type AwaitingConfirmation string

const (
	AwaitingNone              AwaitingConfirmation = ""
	AwaitingTenureDiscrepancy AwaitingConfirmation = "tenure_discrepancy"
)

// #endregion awaiting-confirmation

// #region flags
// Flags holds the per-session control state. The current stage is never
// stored here; it is recomputed from Flags + CollectedData each turn.
type Flags struct {
	CurrentNode          string // informational tag, not authoritative
	IdentityVerified     bool
	IdentityAttempts     int
	Complete             bool
	Terminated           bool
	AwaitingConfirmation AwaitingConfirmation
}

// #endregion flags

// #region collected-data
// Identity holds identity fields. Nil means not yet collected, which is
// distinct from an empty string.
type Identity struct {
	DOB      *string `json:"dob"`
	SSNLast4 *string `json:"ssnLast4"`
}

// Contact holds mailing address and email fields.
type Contact struct {
	Street *string `json:"street"`
	City   *string `json:"city"`
	State  *string `json:"state"`
	Zip    *string `json:"zip"`
	Unit   *string `json:"unit"`
	Email  *string `json:"email"`
}

// Financial holds income and employment tenure fields.
type Financial struct {
	MonthlyIncome *int `json:"monthlyIncome"` // dollars per month
	JobTenure     *int `json:"jobTenure"`     // months
}

// CollectedData is everything gathered from the caller so far. Mutated
// only through Store.MergeExtracted and Store.ResetIdentityData.
type CollectedData struct {
	Identity  Identity  `json:"identity"`
	Contact   Contact   `json:"contact"`
	Financial Financial `json:"financial"`
}

// #endregion collected-data
