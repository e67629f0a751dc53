package replay

// #region imports
import (
	"context"
	"strings"

	"github.com/fusefin/verify-call/go-agent/internal/agent"
	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/orchestrator"
	"github.com/fusefin/verify-call/go-agent/internal/prompts"
	"github.com/fusefin/verify-call/go-agent/internal/session"
)

// #endregion

// #region scripted-client

// scriptedClient replays canned model output for the current turn. It
// tells the three call kinds apart by the instruction text: the
// confirmation classifier and extraction prompts carry fixed markers,
// everything else is the conversational reply.
type scriptedClient struct {
	turn *FixtureTurn
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Generate(_ context.Context, _ []llm.Message, system string, _ llm.Options) (string, error) {
	switch {
	case system == prompts.ConfirmationInstruction:
		if c.turn.Confirm {
			return "YES", nil
		}
		return "NO", nil
	case strings.Contains(system, prompts.ExtractionPreamble):
		if len(c.turn.Extraction) == 0 {
			return "{}", nil
		}
		return string(c.turn.Extraction), nil
	default:
		return c.turn.Reply, nil
	}
}

// #endregion scripted-client

// #region results

// Result captures the post-turn state after replaying one interaction.
type Result struct {
	TurnID               string
	Stage                string
	Decision             string
	Reply                string
	IdentityVerified     bool
	AwaitingConfirmation string
	Terminated           bool
	Complete             bool
}

// ShortCircuitDecision marks turns that hit a terminal flag before any
// capability call.
const ShortCircuitDecision = "short_circuit"

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalTurns int
	Matches    int
	Diverges   int
	FinalFlags session.Flags
	FinalData  session.CollectedData
}

// #endregion results

// #region replay

// Replay drives a real session through the scripted conversation. The
// whole run is deterministic: no external call is made.
func Replay(f *Fixture) ([]Result, *agent.Session, error) {
	client := &scriptedClient{}

	cfg := agent.Config{Orchestrator: orchestrator.DefaultConfig()}
	if f.TenureThresholdMonths > 0 {
		cfg.Orchestrator.TenureThresholdMonths = f.TenureThresholdMonths
	}

	sess := agent.NewWithClient(f.Applicant, cfg, client)
	sess.Start()

	ctx := context.Background()
	results := make([]Result, 0, len(f.Turns))

	for i := range f.Turns {
		turn := f.Turns[i]
		client.turn = &turn

		shortCircuit := sess.IsDone()
		reply, err := sess.ProcessInput(ctx, turn.User)
		if err != nil {
			return results, sess, err
		}

		flags := sess.Flags()
		res := Result{
			TurnID:               turn.TurnID,
			Reply:                reply,
			IdentityVerified:     flags.IdentityVerified,
			AwaitingConfirmation: string(flags.AwaitingConfirmation),
			Terminated:           flags.Terminated,
			Complete:             flags.Complete,
		}
		if shortCircuit {
			res.Stage = flags.CurrentNode
			res.Decision = ShortCircuitDecision
		} else {
			last := sess.LastTurn()
			res.Stage = string(last.Stage)
			res.Decision = last.Decision
		}
		results = append(results, res)
	}

	return results, sess, nil
}

// #endregion replay

// #region compare

// Matches reports whether a result satisfies an expected entry. Empty
// expected fields (stage, decision) are wildcards.
func Matches(expected FixtureExpectedResult, got Result) bool {
	if expected.Stage != "" && expected.Stage != got.Stage {
		return false
	}
	if expected.Decision != "" && expected.Decision != got.Decision {
		return false
	}
	return expected.IdentityVerified == got.IdentityVerified &&
		expected.AwaitingConfirmation == got.AwaitingConfirmation &&
		expected.Terminated == got.Terminated &&
		expected.Complete == got.Complete
}

// Summarize compares results against the fixture expectations.
func Summarize(f *Fixture, results []Result, sess *agent.Session) Summary {
	s := Summary{
		TotalTurns: len(results),
		FinalFlags: sess.Flags(),
		FinalData:  sess.Data(),
	}
	n := len(results)
	if len(f.ExpectedResults) < n {
		n = len(f.ExpectedResults)
	}
	for i := 0; i < n; i++ {
		if Matches(f.ExpectedResults[i], results[i]) {
			s.Matches++
		} else {
			s.Diverges++
		}
	}
	return s
}

// #endregion compare
