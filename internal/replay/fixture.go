package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a recorded conversation.
type Fixture struct {
	Description string `json:"description"`

	// Applicant is the ground-truth record for the call. Omitted for
	// fixed-reference fallback runs.
	Applicant *applicant.Record `json:"applicant,omitempty"`

	// TenureThresholdMonths overrides the discrepancy threshold; zero
	// keeps the default.
	TenureThresholdMonths int `json:"tenure_threshold_months,omitempty"`

	Turns           []FixtureTurn           `json:"turns"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureTurn scripts one user turn: the utterance, the canned reply,
// the canned extraction output, and the confirmation-classifier verdict.
type FixtureTurn struct {
	TurnID     string          `json:"turn_id"`
	User       string          `json:"user"`
	Reply      string          `json:"reply"`
	Extraction json.RawMessage `json:"extraction,omitempty"`
	Confirm    bool            `json:"confirm"`
}

// FixtureExpectedResult captures the expected post-turn state.
type FixtureExpectedResult struct {
	TurnID               string `json:"turn_id"`
	Stage                string `json:"stage"`
	Decision             string `json:"decision,omitempty"`
	IdentityVerified     bool   `json:"identity_verified"`
	AwaitingConfirmation string `json:"awaiting_confirmation,omitempty"`
	Terminated           bool   `json:"terminated"`
	Complete             bool   `json:"complete"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// #endregion fixture-loader
