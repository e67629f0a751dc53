package orchestrator

// #region imports
import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/prompts"
	"github.com/fusefin/verify-call/go-agent/internal/session"
	"github.com/fusefin/verify-call/go-agent/internal/stage"
)

// #endregion

// #region orchestrator-struct

// Orchestrator runs the per-turn sequence for one conversation: resolve
// stage → generate reply → extract data → merge → evaluate transition.
// One instance per session; never shared.
type Orchestrator struct {
	client llm.Client
	store  *session.Store
	record *applicant.Record // nil switches validators to fallback mode
	cfg    Config
}

// New wires an orchestrator to one session store.
func New(client llm.Client, store *session.Store, rec *applicant.Record, cfg Config) *Orchestrator {
	return &Orchestrator{
		client: client,
		store:  store,
		record: rec,
		cfg:    cfg,
	}
}

// #endregion orchestrator-struct

// #region process-turn

// ProcessTurn handles one user utterance. history must already include
// the utterance as its last message. A generation failure is fatal for
// the turn: the error propagates and session state is left unmodified.
// An extraction failure is logged and treated as nothing extracted.
func (o *Orchestrator) ProcessTurn(ctx context.Context, userInput string, history []llm.Message) (TurnResult, error) {
	turnID := uuid.New().String()
	flags := o.store.Flags()
	data := o.store.Data()

	// 1. Resolve the stage. Transition evaluation below reuses this
	// value rather than re-resolving after the merge.
	st := stage.Resolve(flags, data)
	o.store.MoveToNode(string(st))

	// 2. Generate the reply.
	system := prompts.System(st, flags, data, o.record) + "\n" + prompts.Context(st, flags, data)
	reply, err := o.client.Generate(ctx, history, system, llm.Options{
		Temperature: o.cfg.Temperature,
		MaxTokens:   o.cfg.MaxTokens,
	})
	if err != nil {
		return TurnResult{TurnID: turnID, Stage: st}, err
	}

	// 3-4. Extract and merge. Non-fatal on failure.
	var extracted map[string]map[string]any
	if instructions, ok := prompts.Extraction(st); ok {
		extracted, err = llm.ExtractStructured(ctx, o.client, userInput, instructions, history)
		if err != nil {
			log.Printf("[TURN] extraction failed, continuing without data: %v", err)
			extracted = nil
		}
		if extracted != nil {
			o.store.MergeExtracted(extracted)
		}
	}

	// 5. Post-turn transition, against the stage from step 1.
	decision, reason := o.evaluateTransition(ctx, st, history)

	log.Printf("[TURN] stage=%s decision=%s reason=%q", st, decision, reason)

	return TurnResult{
		TurnID:    turnID,
		Stage:     st,
		Reply:     reply,
		Extracted: extracted,
		Decision:  decision,
		Reason:    reason,
	}, nil
}

// #endregion process-turn
