package prompts

import (
	"strings"
	"testing"

	"github.com/fusefin/verify-call/go-agent/internal/session"
	"github.com/fusefin/verify-call/go-agent/internal/stage"
)

func TestSystemNonEmptyForEveryStage(t *testing.T) {
	flags := session.Flags{}
	data := session.CollectedData{}
	for _, st := range stage.All() {
		got := System(st, flags, data, nil)
		if got == "" {
			t.Errorf("%s: empty system prompt", st)
		}
		if !strings.Contains(got, "Sarah") {
			t.Errorf("%s: persona missing from system prompt", st)
		}
	}
}

func TestSystemIdentityAttemptCount(t *testing.T) {
	first := System(stage.IdentityVerification, session.Flags{}, session.CollectedData{}, nil)
	if !strings.Contains(first, "attempt 1 of 2") {
		t.Error("first attempt not surfaced in identity prompt")
	}

	second := System(stage.IdentityVerification, session.Flags{IdentityAttempts: 1}, session.CollectedData{}, nil)
	if !strings.Contains(second, "attempt 2 of 2") || !strings.Contains(second, "LAST attempt") {
		t.Error("final attempt not surfaced in identity prompt")
	}
}

func TestSystemTenureDiscrepancyNote(t *testing.T) {
	flags := session.Flags{
		IdentityVerified:     true,
		AwaitingConfirmation: session.AwaitingTenureDiscrepancy,
	}
	plain := System(stage.TenureCollection, session.Flags{IdentityVerified: true}, session.CollectedData{}, nil)
	gated := System(stage.TenureCollection, flags, session.CollectedData{}, nil)
	if plain == gated {
		t.Error("open discrepancy gate does not change the tenure prompt")
	}
}

func TestExtractionCoverage(t *testing.T) {
	// Two stages have no extraction pass; the other six do.
	without := map[stage.Stage]bool{
		stage.IdentityVerification: true,
		stage.FinalConfirmation:    true,
	}
	for _, st := range stage.All() {
		instr, ok := Extraction(st)
		if without[st] {
			if ok {
				t.Errorf("%s: unexpected extraction schema", st)
			}
			continue
		}
		if !ok {
			t.Errorf("%s: missing extraction schema", st)
			continue
		}
		if !strings.HasPrefix(instr, ExtractionPreamble) {
			t.Errorf("%s: schema missing preamble", st)
		}
	}
}

func TestContextRendersCollectedData(t *testing.T) {
	email := "jane@example.com"
	income := 4500
	data := session.CollectedData{
		Contact:   session.Contact{Email: &email},
		Financial: session.Financial{MonthlyIncome: &income},
	}
	got := Context(stage.FinalConfirmation, session.Flags{IdentityVerified: true}, data)
	if !strings.Contains(got, "jane@example.com") {
		t.Error("email missing from context block")
	}
}
