package replay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
)

func testApplicant() *applicant.Record {
	return &applicant.Record{
		FirstName:              "Jane",
		LastName:               "Doe",
		DateOfBirth:            "1985-03-15",
		SSNLastFour:            "7234",
		EmploymentLengthMonths: 36,
	}
}

// happyFixture walks a call from greeting to completion.
func happyFixture() *Fixture {
	return &Fixture{
		Description: "full verification, no discrepancies",
		Applicant:   testApplicant(),
		Turns: []FixtureTurn{
			{TurnID: "t1", User: "Yes, born March 15th, 1985.", Reply: "And the last four of your social?",
				Extraction: json.RawMessage(`{"identity":{"dob":"March 15th, 1985"}}`)},
			{TurnID: "t2", User: "7234.", Reply: "Is that correct?",
				Extraction: json.RawMessage(`{"identity":{"ssnLast4":"7234"}}`)},
			{TurnID: "t3", User: "Yes.", Reply: "You're verified. Your address?", Confirm: true},
			{TurnID: "t4", User: "123 Oak St, Austin, TX 78701.", Reply: "And your email?",
				Extraction: json.RawMessage(`{"contact":{"street":"123 Oak St","city":"Austin","state":"TX","zip":"78701"}}`)},
			{TurnID: "t5", User: "jane@example.com", Reply: "Monthly income?",
				Extraction: json.RawMessage(`{"contact":{"email":"jane@example.com"}}`)},
			{TurnID: "t6", User: "$4,500.", Reply: "How long at your job?",
				Extraction: json.RawMessage(`{"financial":{"monthlyIncome":4500}}`)},
			{TurnID: "t7", User: "Three years.", Reply: "Is everything correct?",
				Extraction: json.RawMessage(`{"financial":{"jobTenure":36}}`)},
			{TurnID: "t8", User: "Yes.", Reply: "Verification complete!", Confirm: true},
		},
		ExpectedResults: []FixtureExpectedResult{
			{TurnID: "t1", Stage: "greeting_and_dob", Decision: "no_op"},
			{TurnID: "t2", Stage: "ssn_collection", Decision: "no_op"},
			{TurnID: "t3", Stage: "identity_verification", Decision: "identity_verified", IdentityVerified: true},
			{TurnID: "t4", Stage: "address_collection", Decision: "no_op", IdentityVerified: true},
			{TurnID: "t5", Stage: "email_collection", Decision: "no_op", IdentityVerified: true},
			{TurnID: "t6", Stage: "income_collection", Decision: "no_op", IdentityVerified: true},
			{TurnID: "t7", Stage: "tenure_collection", Decision: "no_op", IdentityVerified: true},
			{TurnID: "t8", Stage: "final_confirmation", Decision: "complete", IdentityVerified: true, Complete: true},
		},
	}
}

func TestReplayHappyPath(t *testing.T) {
	f := happyFixture()
	results, sess, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(f.Turns) {
		t.Fatalf("got %d results, want %d", len(results), len(f.Turns))
	}
	for i, exp := range f.ExpectedResults {
		if !Matches(exp, results[i]) {
			t.Errorf("turn %s diverged:\nexpected %+v\ngot      %+v", exp.TurnID, exp, results[i])
		}
	}
	if !sess.Flags().Complete {
		t.Error("session not complete")
	}

	s := Summarize(f, results, sess)
	if s.Diverges != 0 || s.Matches != len(f.Turns) {
		t.Errorf("summary: %+v", s)
	}
}

func TestReplayThresholdOverride(t *testing.T) {
	f := happyFixture()
	f.TenureThresholdMonths = 3
	// Reported tenure now diverges: record says 36, caller says 42.
	f.Turns[6].Extraction = json.RawMessage(`{"financial":{"jobTenure":42}}`)
	f.Turns = f.Turns[:7]
	f.ExpectedResults = f.ExpectedResults[:7]
	f.ExpectedResults[6] = FixtureExpectedResult{
		TurnID: "t7", Stage: "tenure_collection",
		Decision: "tenure_discrepancy", IdentityVerified: true,
		AwaitingConfirmation: "tenure_discrepancy",
	}

	results, _, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	got := results[6]
	if !Matches(f.ExpectedResults[6], got) {
		t.Errorf("discrepancy turn diverged: %+v", got)
	}
}

func TestReplayShortCircuitAfterTerminal(t *testing.T) {
	f := &Fixture{
		Applicant: testApplicant(),
		Turns: []FixtureTurn{
			{TurnID: "t1", User: "Born July 4th, 1990.", Reply: "Last four?",
				Extraction: json.RawMessage(`{"identity":{"dob":"July 4th, 1990"}}`)},
			{TurnID: "t2", User: "1111.", Reply: "Is that correct?",
				Extraction: json.RawMessage(`{"identity":{"ssnLast4":"1111"}}`)},
			{TurnID: "t3", User: "Yes.", Reply: "Doesn't match, let's retry.", Confirm: true},
			{TurnID: "t4", User: "July 4th, 1990.", Reply: "Last four?",
				Extraction: json.RawMessage(`{"identity":{"dob":"July 4th, 1990"}}`)},
			{TurnID: "t5", User: "1111.", Reply: "Is that correct?",
				Extraction: json.RawMessage(`{"identity":{"ssnLast4":"1111"}}`)},
			{TurnID: "t6", User: "Yes.", Reply: "I can't verify you.", Confirm: true},
			{TurnID: "t7", User: "Hello?", Reply: "unused"},
		},
	}
	results, sess, err := Replay(f)
	if err != nil {
		t.Fatal(err)
	}
	if !sess.Flags().Terminated {
		t.Fatal("session not terminated")
	}
	last := results[6]
	if last.Decision != ShortCircuitDecision {
		t.Errorf("post-terminal turn decision = %s, want %s", last.Decision, ShortCircuitDecision)
	}
	if last.Reply == "unused" {
		t.Error("post-terminal turn reached the scripted model")
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	raw, err := json.Marshal(happyFixture())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Turns) != 8 || f.Applicant == nil || f.Applicant.SSNLastFour != "7234" {
		t.Errorf("fixture roundtrip: %+v", f)
	}

	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
