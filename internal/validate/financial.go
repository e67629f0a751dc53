package validate

import (
	"math"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
)

// #region plausibility

// Plausibility bounds for extracted financial values, in dollars per
// month and months respectively.
const (
	MinMonthlyIncome = 1000
	MaxMonthlyIncome = 50000
	MinTenureMonths  = 0
	MaxTenureMonths  = 600
)

// ValidateIncome reports whether a monthly income is within plausible
// bounds.
func ValidateIncome(income, minIncome, maxIncome int) bool {
	return income >= minIncome && income <= maxIncome
}

// ValidateTenure reports whether an employment tenure in months is
// within plausible bounds.
func ValidateTenure(months, minMonths, maxMonths int) bool {
	return months >= minMonths && months <= maxMonths
}

// #endregion plausibility

// #region discrepancy

// CheckTenureDiscrepancy reports whether the claimed employment tenure
// diverges from the recorded one by more than thresholdMonths. Always
// false without a recorded employment length.
func CheckTenureDiscrepancy(reportedMonths int, rec *applicant.Record, thresholdMonths int) bool {
	if rec == nil || rec.EmploymentLengthMonths == 0 {
		return false
	}
	diff := reportedMonths - rec.EmploymentLengthMonths
	if diff < 0 {
		diff = -diff
	}
	return diff > thresholdMonths
}

// #endregion discrepancy

// #region converters

// weeksPerMonth is the average used for hourly-to-monthly conversion.
const weeksPerMonth = 4.33

// ConvertAnnualToMonthly converts an annual income to monthly, rounded.
func ConvertAnnualToMonthly(annual int) int {
	return int(math.Round(float64(annual) / 12))
}

// ConvertHourlyToMonthly converts an hourly rate to monthly income,
// rounded: rate × hoursPerWeek × 4.33.
func ConvertHourlyToMonthly(hourlyRate float64, hoursPerWeek float64) int {
	return int(math.Round(hourlyRate * hoursPerWeek * weeksPerMonth))
}

// #endregion converters
