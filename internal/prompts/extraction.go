package prompts

import (
	"fmt"

	"github.com/fusefin/verify-call/go-agent/internal/stage"
)

// #region markers

// ExtractionPreamble opens every extraction instruction set. Exported so
// the replay harness can tell extraction calls apart from generation.
const ExtractionPreamble = "Extract the following information from the user's message as JSON:"

// ConfirmationInstruction is the constrained prompt whose output is read
// as a yes/no signal. Anything that does not contain the affirmative
// token counts as not confirmed.
const ConfirmationInstruction = `Based on the conversation, did the user confirm or agree?
Reply ONLY with "YES" or "NO".`

// #endregion markers

// #region schemas

var extractionSchemas = map[stage.Stage]string{
	stage.GreetingAndDOB: `{
  "identity": {
    "dob": "string - extract date of birth in any format mentioned (e.g., \"March 15, 1985\", \"3/15/1985\")"
  }
}`,
	stage.SSNCollection: `{
  "identity": {
    "ssnLast4": "string - extract only 4 digits mentioned (e.g., \"7234\")"
  }
}`,
	stage.AddressCollection: `{
  "contact": {
    "street": "string - street address",
    "city": "string - city name",
    "state": "string - state name or abbreviation",
    "zip": "string - ZIP code",
    "unit": "string or null - apartment/unit number if mentioned"
  }
}`,
	stage.EmailCollection: `{
  "contact": {
    "email": "string - email address in lowercase"
  }
}`,
	stage.IncomeCollection: `{
  "financial": {
    "monthlyIncome": "number - monthly income in dollars (convert from annual or hourly if needed)"
  }
}`,
	stage.TenureCollection: `{
  "financial": {
    "jobTenure": "number - employment length in months (convert from years if needed)"
  }
}`,
}

// Extraction returns the extraction instruction set for a stage, or
// false for stages with nothing to extract (identity verification and
// final confirmation are confirmation-only).
func Extraction(st stage.Stage) (string, bool) {
	schema, ok := extractionSchemas[st]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(`%s
%s

Rules:
- Only extract information that was explicitly stated
- Return null for fields not mentioned
- For dates, keep the exact format the user provided
- For numbers, extract and convert to appropriate units
- Return valid JSON only, no other text

If no relevant information is in the message, return an empty object: {}`,
		ExtractionPreamble, schema), true
}

// #endregion schemas
