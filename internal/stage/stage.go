package stage

import "github.com/fusefin/verify-call/go-agent/internal/session"

// #region stage-type

// Stage names the current objective of the dialogue. It is derived, never
// stored: Resolve recomputes it from session flags and collected data.
type Stage string

const (
	GreetingAndDOB       Stage = "greeting_and_dob"
	SSNCollection        Stage = "ssn_collection"
	IdentityVerification Stage = "identity_verification"
	AddressCollection    Stage = "address_collection"
	EmailCollection      Stage = "email_collection"
	IncomeCollection     Stage = "income_collection"
	TenureCollection     Stage = "tenure_collection"
	FinalConfirmation    Stage = "final_confirmation"
)

// All returns every defined stage in progression order.
func All() []Stage {
	return []Stage{
		GreetingAndDOB, SSNCollection, IdentityVerification,
		AddressCollection, EmailCollection,
		IncomeCollection, TenureCollection, FinalConfirmation,
	}
}

// #endregion stage-type

// #region resolve

// Resolve derives the current stage. Pure and total: any flag/data
// combination maps to exactly one stage, and the check order is
// significant (email collection depends on address, not vice versa).
func Resolve(flags session.Flags, data session.CollectedData) Stage {
	if !flags.IdentityVerified {
		if data.Identity.DOB == nil {
			return GreetingAndDOB
		}
		if data.Identity.SSNLast4 == nil {
			return SSNCollection
		}
		return IdentityVerification
	}

	if data.Contact.Email == nil {
		if data.Contact.Street == nil {
			return AddressCollection
		}
		return EmailCollection
	}

	if data.Financial.MonthlyIncome == nil {
		return IncomeCollection
	}

	// An open tenure discrepancy holds the session at tenure collection
	// until a confirmed turn clears it.
	if data.Financial.JobTenure == nil ||
		flags.AwaitingConfirmation == session.AwaitingTenureDiscrepancy {
		return TenureCollection
	}

	return FinalConfirmation
}

// #endregion resolve
