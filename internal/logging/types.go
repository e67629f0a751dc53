package logging

import (
	"encoding/json"
	"time"

	"github.com/fusefin/verify-call/go-agent/internal/session"
)

// #region turn-entry
// TurnEntry is a single row in the call_log table: the provenance of one
// processed turn (what stage it ran at, what was extracted, and which
// transition fired). Enough to rebuild a replay fixture.
type TurnEntry struct {
	SessionID     string
	TurnID        string
	Stage         string
	UserText      string
	Reply         string
	ExtractedJSON string // empty when nothing was extracted
	Decision      string
	Reason        string
	FlagsJSON     string // post-turn session flags snapshot
	CreatedAt     time.Time
}

// #endregion turn-entry

// #region flags-snapshot

// FlagsSnapshot is the JSON shape stored in the flags_json column.
type FlagsSnapshot struct {
	IdentityVerified     bool   `json:"identityVerified"`
	IdentityAttempts     int    `json:"identityAttempts"`
	AwaitingConfirmation string `json:"awaitingConfirmation,omitempty"`
	Terminated           bool   `json:"terminated"`
	Complete             bool   `json:"complete"`
}

// MarshalFlags renders session flags for the flags_json column.
func MarshalFlags(flags session.Flags) string {
	data, err := json.Marshal(FlagsSnapshot{
		IdentityVerified:     flags.IdentityVerified,
		IdentityAttempts:     flags.IdentityAttempts,
		AwaitingConfirmation: string(flags.AwaitingConfirmation),
		Terminated:           flags.Terminated,
		Complete:             flags.Complete,
	})
	if err != nil {
		return ""
	}
	return string(data)
}

// #endregion flags-snapshot
