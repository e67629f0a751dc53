package orchestrator

// #region imports
import (
	"context"
	"log"
	"strings"

	"github.com/fusefin/verify-call/go-agent/internal/llm"
	"github.com/fusefin/verify-call/go-agent/internal/prompts"
)

// #endregion

// #region confirmed

// confirmed asks the classifier whether the caller agreed in the given
// window of turns. Only an affirmative token counts; malformed output or
// a failed call reads as not confirmed.
func (o *Orchestrator) confirmed(ctx context.Context, recent []llm.Message) bool {
	out, err := o.client.Generate(ctx, recent, prompts.ConfirmationInstruction, llm.Options{
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		log.Printf("[TURN] confirmation check failed, treating as not confirmed: %v", err)
		return false
	}
	return strings.Contains(strings.ToUpper(out), "YES")
}

// #endregion confirmed
