// Package agent exposes the session facade the CLI harness talks to:
// one state store plus one turn orchestrator per conversation.
package agent

// #region imports
import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/fusefin/verify-call/go-agent/internal/applicant"
	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/orchestrator"
	"github.com/fusefin/verify-call/go-agent/internal/session"
)

// #endregion

// #region canned-lines

const greetingText = "Hello, my name is Sarah, I'm calling from Fuse Finance regarding your recent vehicle financing application. This call may be recorded for quality assurance. Am I speaking with you?"

const refusalText = "I'm sorry, but this call has been concluded. Please call back when you have the required information."

const completionText = "Thank you, your verification is complete. We'll be in touch about the next steps for your application. Have a great day!"

// #endregion canned-lines

// #region config

// Config selects the LLM provider and orchestration knobs for a session.
type Config struct {
	Provider     string // "", "openai", "anthropic", "ollama"
	Orchestrator orchestrator.Config
}

// DefaultConfig reads LLM_PROVIDER and the orchestration knobs from the
// environment.
func DefaultConfig() Config {
	return Config{
		Provider:     os.Getenv("LLM_PROVIDER"),
		Orchestrator: orchestrator.DefaultConfig(),
	}
}

// #endregion config

// #region session

// Session is one end-to-end verification call. Independent sessions
// share no mutable state and may run concurrently.
type Session struct {
	id      string
	store   *session.Store
	orch    *orchestrator.Orchestrator
	client  llm.Client
	history []llm.Message
	last    orchestrator.TurnResult
}

// New creates a session, resolving the LLM provider from config. A nil
// record puts the identity validator in fixed-reference fallback mode.
// A missing provider credential fails here, before any turn runs.
func New(rec *applicant.Record, cfg Config) (*Session, error) {
	client, err := llm.NewClient(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return NewWithClient(rec, cfg, client), nil
}

// NewWithClient creates a session around an injected generation client.
// Used by the replay harness and tests.
func NewWithClient(rec *applicant.Record, cfg Config, client llm.Client) *Session {
	store := session.NewStore()
	return &Session{
		id:     uuid.New().String(),
		store:  store,
		orch:   orchestrator.New(client, store, rec, cfg.Orchestrator),
		client: client,
	}
}

// #endregion session

// #region start

// Start opens the call with the canned greeting.
func (s *Session) Start() string {
	s.history = append(s.history, llm.Message{Role: "assistant", Content: greetingText})
	return greetingText
}

// #endregion start

// #region process-input

// ProcessInput runs one turn. Once a terminal flag is set the session
// short-circuits to a canned line without touching the generation or
// extraction capability; terminated wins over complete. A generation
// failure propagates with the history rewound so the turn can be
// retried.
func (s *Session) ProcessInput(ctx context.Context, userInput string) (string, error) {
	if s.store.IsTerminated() {
		return refusalText, nil
	}
	if s.store.IsComplete() {
		return completionText, nil
	}

	s.history = append(s.history, llm.Message{Role: "user", Content: userInput})

	result, err := s.orch.ProcessTurn(ctx, userInput, s.history)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return "", fmt.Errorf("process turn: %w", err)
	}

	s.last = result
	s.history = append(s.history, llm.Message{Role: "assistant", Content: result.Reply})
	return result.Reply, nil
}

// #endregion process-input

// #region accessors

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// IsDone reports whether the call reached a terminal state.
func (s *Session) IsDone() bool {
	return s.store.IsComplete() || s.store.IsTerminated()
}

// Flags returns the current control flags.
func (s *Session) Flags() session.Flags { return s.store.Flags() }

// Data returns the collected data so far. Readable after termination
// for inspection; no further mutation is accepted.
func (s *Session) Data() session.CollectedData { return s.store.Data() }

// History returns the full turn history.
func (s *Session) History() []llm.Message { return s.history }

// LastTurn returns the result of the most recent successful turn.
func (s *Session) LastTurn() orchestrator.TurnResult { return s.last }

// ProviderName reports which LLM provider the session is wired to.
func (s *Session) ProviderName() string { return s.client.Name() }

// #endregion accessors
