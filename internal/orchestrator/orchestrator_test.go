package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/prompts"
	"github.com/fusefin/verify-call/go-agent/internal/session"
	"github.com/fusefin/verify-call/go-agent/internal/stage"
)

// stageClient scripts the three call kinds an orchestrator turn makes:
// reply generation, extraction, and the confirmation classifier.
type stageClient struct {
	reply      string
	extraction string // JSON returned for extraction calls
	confirm    bool
	genErr     error // fails reply generation
	extErr     error // fails extraction calls
}

func (c *stageClient) Name() string { return "staged" }

func (c *stageClient) Generate(_ context.Context, _ []llm.Message, system string, _ llm.Options) (string, error) {
	switch {
	case system == prompts.ConfirmationInstruction:
		if c.confirm {
			return "YES", nil
		}
		return "NO", nil
	case strings.Contains(system, prompts.ExtractionPreamble):
		if c.extErr != nil {
			return "", c.extErr
		}
		if c.extraction == "" {
			return "{}", nil
		}
		return c.extraction, nil
	default:
		if c.genErr != nil {
			return "", c.genErr
		}
		return c.reply, nil
	}
}

func testRecord() *applicant.Record {
	return &applicant.Record{
		FirstName:              "Jane",
		LastName:               "Doe",
		DateOfBirth:            "1985-03-15",
		SSNLastFour:            "7234",
		EmploymentLengthMonths: 30,
	}
}

func testConfig() Config {
	return Config{TenureThresholdMonths: 3, Temperature: 0.7, MaxTokens: 200}
}

// seedIdentity puts claimed identity fields into the store.
func seedIdentity(s *session.Store, dob, ssn string) {
	s.MergeExtracted(map[string]map[string]any{
		"identity": {"dob": dob, "ssnLast4": ssn},
	})
}

// seedVerifiedThroughIncome fills everything up to income so the
// resolver lands on tenure collection.
func seedVerifiedThroughIncome(s *session.Store) {
	s.SetIdentityVerified(true)
	s.MergeExtracted(map[string]map[string]any{
		"contact":   {"street": "123 Oak St", "city": "Austin", "state": "TX", "zip": "78701", "email": "jane@example.com"},
		"financial": {"monthlyIncome": float64(4500)},
	})
}

func history(turns ...string) []llm.Message {
	msgs := make([]llm.Message, 0, len(turns))
	role := "assistant"
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: role, Content: t})
		if role == "assistant" {
			role = "user"
		} else {
			role = "assistant"
		}
	}
	return msgs
}

func TestProcessTurnGenerationFailureLeavesStateUnmodified(t *testing.T) {
	store := session.NewStore()
	client := &stageClient{genErr: errors.New("upstream 500")}
	o := New(client, store, testRecord(), testConfig())

	before := store.Flags()
	_, err := o.ProcessTurn(context.Background(), "hi", history("greeting", "hi"))
	if err == nil {
		t.Fatal("expected generation error to propagate")
	}
	if store.Data() != (session.CollectedData{}) {
		t.Error("failed turn mutated collected data")
	}
	after := store.Flags()
	after.CurrentNode = before.CurrentNode // node tag is informational
	if after != before {
		t.Errorf("failed turn mutated flags: %+v", store.Flags())
	}
}

func TestProcessTurnExtractionFailureNonFatal(t *testing.T) {
	store := session.NewStore()
	client := &stageClient{reply: "Could you repeat that?", extErr: errors.New("timeout")}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "born 3/15/1985", history("greeting", "born 3/15/1985"))
	if err != nil {
		t.Fatalf("extraction failure should not fail the turn: %v", err)
	}
	if res.Reply != "Could you repeat that?" {
		t.Errorf("reply lost: %q", res.Reply)
	}
	if res.Extracted != nil {
		t.Errorf("expected no extracted data, got %+v", res.Extracted)
	}
}

func TestProcessTurnMergesExtraction(t *testing.T) {
	store := session.NewStore()
	client := &stageClient{
		reply:      "Thanks! And the last four of your social?",
		extraction: `{"identity":{"dob":"3/15/1985"}}`,
	}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "born 3/15/1985", history("greeting", "born 3/15/1985"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != stage.GreetingAndDOB {
		t.Errorf("stage = %s, want %s", res.Stage, stage.GreetingAndDOB)
	}
	if res.Decision != DecisionNoOp {
		t.Errorf("decision = %s, want %s", res.Decision, DecisionNoOp)
	}
	if got := store.Data().Identity.DOB; got == nil || *got != "3/15/1985" {
		t.Errorf("dob not merged: %v", got)
	}
}

func TestProcessTurnUsesPreMergeStage(t *testing.T) {
	// The turn that delivers the SSN is still processed at ssn_collection
	// even though the merge advances the resolver past it.
	store := session.NewStore()
	seedIdentity(store, "3/15/1985", "")
	store.MergeExtracted(map[string]map[string]any{"identity": {"ssnLast4": nil}})

	client := &stageClient{
		reply:      "Got it.",
		extraction: `{"identity":{"ssnLast4":"7234"}}`,
	}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "7234", history("last four?", "7234"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != stage.SSNCollection {
		t.Errorf("stage = %s, want %s", res.Stage, stage.SSNCollection)
	}
	if res.Decision != DecisionNoOp {
		t.Errorf("decision = %s, want %s", res.Decision, DecisionNoOp)
	}
}

func TestIdentityVerifiedOnConfirmedMatch(t *testing.T) {
	store := session.NewStore()
	seedIdentity(store, "March 15th, 1985", "7-2-3-4")
	client := &stageClient{reply: "Great, you're verified.", confirm: true}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "yes that's right", history("is that correct?", "yes that's right"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionIdentityVerified {
		t.Fatalf("decision = %s, want %s (reason %q)", res.Decision, DecisionIdentityVerified, res.Reason)
	}
	if !store.Flags().IdentityVerified {
		t.Error("verified flag not set")
	}
}

func TestIdentityUnconfirmedIsNoOp(t *testing.T) {
	store := session.NewStore()
	seedIdentity(store, "March 15th, 1985", "7234")
	client := &stageClient{reply: "Is that correct?", confirm: false}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "hold on", history("is that correct?", "hold on"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionNoOp {
		t.Errorf("decision = %s, want %s", res.Decision, DecisionNoOp)
	}
	if store.Flags().IdentityAttempts != 0 {
		t.Error("unconfirmed turn consumed an attempt")
	}
}

func TestIdentityAttemptCapTerminates(t *testing.T) {
	store := session.NewStore()
	seedIdentity(store, "July 4th, 1990", "1111")
	client := &stageClient{reply: "Hmm, that doesn't match.", confirm: true}
	o := New(client, store, testRecord(), testConfig())
	ctx := context.Background()

	res, err := o.ProcessTurn(ctx, "yes", history("is that correct?", "yes"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionIdentityRetry {
		t.Fatalf("first failure: decision = %s, want %s", res.Decision, DecisionIdentityRetry)
	}
	if store.Data().Identity != (session.Identity{}) {
		t.Error("identity fields not cleared for re-collection")
	}
	if store.Flags().Terminated {
		t.Fatal("terminated after a single failure")
	}

	// Second confirmed mismatch hits the cap.
	seedIdentity(store, "July 4th, 1990", "1111")
	res, err = o.ProcessTurn(ctx, "yes", history("is that correct?", "yes"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionTerminated {
		t.Fatalf("second failure: decision = %s, want %s", res.Decision, DecisionTerminated)
	}
	if !store.Flags().Terminated {
		t.Error("terminated flag not set")
	}
}

func TestTenureDiscrepancyGateLifecycle(t *testing.T) {
	store := session.NewStore()
	seedVerifiedThroughIncome(store)
	client := &stageClient{
		reply:      "The application shows 30 months.",
		extraction: `{"financial":{"jobTenure":36}}`,
	}
	o := New(client, store, testRecord(), testConfig())
	ctx := context.Background()

	// Turn 1: tenure arrives, diverges from the record by 6 > 3.
	res, err := o.ProcessTurn(ctx, "about 3 years", history("how long?", "about 3 years"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != stage.TenureCollection {
		t.Fatalf("stage = %s, want %s", res.Stage, stage.TenureCollection)
	}
	if res.Decision != DecisionTenureDiscrepancy {
		t.Fatalf("decision = %s, want %s", res.Decision, DecisionTenureDiscrepancy)
	}
	if store.Flags().AwaitingConfirmation != session.AwaitingTenureDiscrepancy {
		t.Fatal("gate not opened")
	}

	// Turn 2: gate open, unconfirmed — stays open.
	client.extraction = ""
	client.confirm = false
	res, err = o.ProcessTurn(ctx, "let me think", history("can you explain?", "let me think"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionNoOp {
		t.Errorf("decision = %s, want %s", res.Decision, DecisionNoOp)
	}
	if store.Flags().AwaitingConfirmation != session.AwaitingTenureDiscrepancy {
		t.Fatal("gate closed without confirmation")
	}

	// Turn 3: confirmed — gate clears without re-checking tenure.
	client.confirm = true
	res, err = o.ProcessTurn(ctx, "yes, I was promoted", history("can you explain?", "yes, I was promoted"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionDiscrepancyResolved {
		t.Fatalf("decision = %s, want %s", res.Decision, DecisionDiscrepancyResolved)
	}
	if store.Flags().AwaitingConfirmation != session.AwaitingNone {
		t.Fatal("gate still open after confirmation")
	}

	// Turn 4: resolver has moved on to the final summary.
	res, err = o.ProcessTurn(ctx, "sounds good", history("is everything correct?", "sounds good"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != stage.FinalConfirmation {
		t.Errorf("stage = %s, want %s", res.Stage, stage.FinalConfirmation)
	}
}

func TestTenureWithinThresholdNoGate(t *testing.T) {
	store := session.NewStore()
	seedVerifiedThroughIncome(store)
	client := &stageClient{
		reply:      "Thanks.",
		extraction: `{"financial":{"jobTenure":31}}`,
	}
	o := New(client, store, testRecord(), testConfig())

	res, err := o.ProcessTurn(context.Background(), "31 months", history("how long?", "31 months"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionNoOp {
		t.Errorf("decision = %s, want %s", res.Decision, DecisionNoOp)
	}
	if store.Flags().AwaitingConfirmation != session.AwaitingNone {
		t.Error("gate opened within threshold")
	}
}

func TestFinalConfirmationCompletes(t *testing.T) {
	store := session.NewStore()
	seedVerifiedThroughIncome(store)
	store.MergeExtracted(map[string]map[string]any{"financial": {"jobTenure": float64(30)}})

	client := &stageClient{reply: "Is all of this correct?", confirm: false}
	o := New(client, store, testRecord(), testConfig())
	ctx := context.Background()

	res, err := o.ProcessTurn(ctx, "one second", history("summary...", "one second"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stage != stage.FinalConfirmation || res.Decision != DecisionNoOp {
		t.Fatalf("unconfirmed: stage=%s decision=%s", res.Stage, res.Decision)
	}
	if store.IsComplete() {
		t.Fatal("completed without confirmation")
	}

	client.confirm = true
	res, err = o.ProcessTurn(ctx, "yes, all correct", history("summary...", "yes, all correct"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Decision != DecisionComplete {
		t.Fatalf("decision = %s, want %s", res.Decision, DecisionComplete)
	}
	if !store.IsComplete() {
		t.Error("complete flag not set")
	}
}

func TestDefaultConfigThresholdFromEnv(t *testing.T) {
	t.Setenv("JOB_TENURE_THRESHOLD", "")
	if got := DefaultConfig().TenureThresholdMonths; got != 24 {
		t.Errorf("default threshold = %d, want 24", got)
	}

	t.Setenv("JOB_TENURE_THRESHOLD", "6")
	if got := DefaultConfig().TenureThresholdMonths; got != 6 {
		t.Errorf("env threshold = %d, want 6", got)
	}

	t.Setenv("JOB_TENURE_THRESHOLD", "not-a-number")
	if got := DefaultConfig().TenureThresholdMonths; got != 24 {
		t.Errorf("bad env threshold = %d, want 24", got)
	}
}
