package orchestrator

// #region imports
import (
	"context"
	"fmt"

	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/session"
	"github.com/fusefin/verify-call/go-agent/internal/stage"
	"github.com/fusefin/verify-call/go-agent/internal/validate"
)

// #endregion

// #region constants

// maxIdentityAttempts caps confirmed-but-failed verification cycles;
// reaching it terminates the call.
const maxIdentityAttempts = 2

// Confirmation-classifier windows: how many recent turns each check reads.
const (
	identityConfirmWindow = 4
	tenureConfirmWindow   = 2
	finalConfirmWindow    = 2
)

// #endregion

// #region evaluate

// evaluateTransition applies the post-turn rule for the stage the turn
// was processed at. The switch is exhaustive over every stage so a new
// stage cannot be added without deciding its rule.
func (o *Orchestrator) evaluateTransition(ctx context.Context, st stage.Stage, history []llm.Message) (string, string) {
	switch st {
	case stage.GreetingAndDOB, stage.SSNCollection,
		stage.AddressCollection, stage.EmailCollection,
		stage.IncomeCollection:
		return DecisionNoOp, "no transition rule at this stage"

	case stage.IdentityVerification:
		return o.evaluateIdentity(ctx, history)

	case stage.TenureCollection:
		return o.evaluateTenure(ctx, history)

	case stage.FinalConfirmation:
		if !o.confirmed(ctx, lastTurns(history, finalConfirmWindow)) {
			return DecisionNoOp, "final summary not yet confirmed"
		}
		o.store.MarkComplete()
		return DecisionComplete, "caller confirmed the final summary"
	}
	return DecisionNoOp, fmt.Sprintf("unhandled stage %s", st)
}

// #endregion evaluate

// #region identity

// evaluateIdentity runs once the caller has stated both DOB and SSN
// last-4. A confirmed turn triggers validation; the second confirmed
// failure terminates the call, an earlier one clears the identity
// fields so collection starts over.
func (o *Orchestrator) evaluateIdentity(ctx context.Context, history []llm.Message) (string, string) {
	if !o.confirmed(ctx, lastTurns(history, identityConfirmWindow)) {
		return DecisionNoOp, "awaiting identity confirmation"
	}

	data := o.store.Data()
	dob, ssn := "", ""
	if data.Identity.DOB != nil {
		dob = *data.Identity.DOB
	}
	if data.Identity.SSNLast4 != nil {
		ssn = *data.Identity.SSNLast4
	}

	strategy := validate.SelectIdentityStrategy(o.record)
	if validate.ValidateIdentity(dob, ssn, o.record) {
		o.store.SetIdentityVerified(true)
		return DecisionIdentityVerified, fmt.Sprintf("identity matched (%s)", strategy)
	}

	attempts := o.store.IncrementIdentityAttempts()
	if attempts >= maxIdentityAttempts {
		o.store.Terminate()
		return DecisionTerminated, fmt.Sprintf("identity mismatch on attempt %d of %d", attempts, maxIdentityAttempts)
	}
	o.store.ResetIdentityData()
	return DecisionIdentityRetry, fmt.Sprintf("identity mismatch on attempt %d, collecting again", attempts)
}

// #endregion identity

// #region tenure

// evaluateTenure handles both sides of the discrepancy gate. While the
// gate is open, a confirmed turn resolves it (no re-check that turn);
// otherwise a newly collected tenure is checked against the record.
func (o *Orchestrator) evaluateTenure(ctx context.Context, history []llm.Message) (string, string) {
	flags := o.store.Flags()
	if flags.AwaitingConfirmation == session.AwaitingTenureDiscrepancy {
		if !o.confirmed(ctx, lastTurns(history, tenureConfirmWindow)) {
			return DecisionNoOp, "tenure discrepancy still unresolved"
		}
		o.store.ClearAwaitingConfirmation()
		return DecisionDiscrepancyResolved, "caller acknowledged the tenure discrepancy"
	}

	data := o.store.Data()
	if data.Financial.JobTenure == nil {
		return DecisionNoOp, "tenure not yet collected"
	}
	if validate.CheckTenureDiscrepancy(*data.Financial.JobTenure, o.record, o.cfg.TenureThresholdMonths) {
		o.store.SetAwaitingConfirmation(session.AwaitingTenureDiscrepancy)
		return DecisionTenureDiscrepancy, fmt.Sprintf(
			"reported %d months diverges from record by more than %d months",
			*data.Financial.JobTenure, o.cfg.TenureThresholdMonths)
	}
	return DecisionNoOp, "tenure within threshold"
}

// #endregion tenure

// #region helpers

// lastTurns returns the trailing window of the history.
func lastTurns(history []llm.Message, n int) []llm.Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// #endregion helpers
