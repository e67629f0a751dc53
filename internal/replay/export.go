package replay

import (
	"encoding/json"
	"fmt"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/logging"
	"github.com/fusefin/verify-call/go-agent/internal/orchestrator"
)

// #region from-call-log

// FromCallLog rebuilds a replay fixture from recorded call-log rows. The
// confirmation verdict is not logged directly; it is derived from the
// decision each turn produced — every decision other than no_op requires
// a confirmed classifier call.
func FromCallLog(sessionID string, entries []logging.TurnEntry, rec *applicant.Record) (*Fixture, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no call log entries for session %s", sessionID)
	}

	f := &Fixture{
		Description: fmt.Sprintf("session %s: %d logged turns", sessionID, len(entries)),
		Applicant:   rec,
		Turns:       make([]FixtureTurn, len(entries)),
	}

	for i, e := range entries {
		f.Turns[i] = FixtureTurn{
			TurnID:  e.TurnID,
			User:    e.UserText,
			Reply:   e.Reply,
			Confirm: decisionImpliesConfirm(e.Decision),
		}
		if e.ExtractedJSON != "" {
			f.Turns[i].Extraction = json.RawMessage(e.ExtractedJSON)
		}

		exp := FixtureExpectedResult{
			TurnID:   e.TurnID,
			Stage:    e.Stage,
			Decision: e.Decision,
		}
		if e.FlagsJSON != "" {
			var flags logging.FlagsSnapshot
			if err := json.Unmarshal([]byte(e.FlagsJSON), &flags); err == nil {
				exp.IdentityVerified = flags.IdentityVerified
				exp.AwaitingConfirmation = flags.AwaitingConfirmation
				exp.Terminated = flags.Terminated
				exp.Complete = flags.Complete
			}
		}
		f.ExpectedResults = append(f.ExpectedResults, exp)
	}

	return f, nil
}

// decisionImpliesConfirm reports whether the logged decision could only
// have fired on a confirmed turn. An identity retry or termination also
// implies YES: the caller confirmed and validation failed.
func decisionImpliesConfirm(decision string) bool {
	switch decision {
	case orchestrator.DecisionIdentityVerified,
		orchestrator.DecisionIdentityRetry,
		orchestrator.DecisionTerminated,
		orchestrator.DecisionDiscrepancyResolved,
		orchestrator.DecisionComplete:
		return true
	}
	return false
}

// #endregion from-call-log
