package orchestrator

// #region imports
import (
	"os"
	"strconv"

	"github.com/fusefin/verify-call/go-agent/internal/stage"
)

// #endregion

// #region config

// Config holds the per-session orchestration knobs.
type Config struct {
	// TenureThresholdMonths is the tolerance for the employment-tenure
	// discrepancy check. The "job tenure threshold" configuration value
	// and the discrepancy threshold are the same knob.
	TenureThresholdMonths int

	// Generation parameters for the conversational reply.
	Temperature float32
	MaxTokens   int
}

// DefaultConfig reads orchestration knobs from the environment.
// JOB_TENURE_THRESHOLD defaults to 24 months.
func DefaultConfig() Config {
	cfg := Config{
		TenureThresholdMonths: 24,
		Temperature:           0.7,
		MaxTokens:             200,
	}
	if v := os.Getenv("JOB_TENURE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TenureThresholdMonths = n
		}
	}
	return cfg
}

// #endregion config

// #region turn-result

// TurnResult reports what one processed turn did, for logging and the
// call-log provenance row.
type TurnResult struct {
	TurnID    string
	Stage     stage.Stage // stage the turn was processed at (pre-merge)
	Reply     string
	Extracted map[string]map[string]any // nil when nothing extracted
	Decision  string                    // transition decision tag
	Reason    string
}

// Transition decision tags.
const (
	DecisionNoOp                = "no_op"
	DecisionIdentityVerified    = "identity_verified"
	DecisionIdentityRetry       = "identity_retry"
	DecisionTerminated          = "terminated"
	DecisionTenureDiscrepancy   = "tenure_discrepancy"
	DecisionDiscrepancyResolved = "discrepancy_resolved"
	DecisionComplete            = "complete"
)

// #endregion turn-result
