package session

import "math"

// #region store
// Store owns the mutable state of one conversation. It holds no logic
// beyond controlled mutation; transition rules live in the orchestrator.
// A Store is not shared across sessions and needs no locking.
type Store struct {
	flags Flags
	data  CollectedData
}

// NewStore creates a session store with all fields unset.
func NewStore() *Store {
	return &Store{
		flags: Flags{CurrentNode: "greeting"},
	}
}

// #endregion store

// #region accessors

// Flags returns a copy of the control flags.
func (s *Store) Flags() Flags {
	return s.flags
}

// Data returns a snapshot of the collected data. Pointees are shared but
// callers must not write through them.
func (s *Store) Data() CollectedData {
	return s.data
}

// IsTerminated reports whether the session was terminated.
func (s *Store) IsTerminated() bool {
	return s.flags.Terminated
}

// IsComplete reports whether the session finished successfully.
func (s *Store) IsComplete() bool {
	return s.flags.Complete
}

// #endregion accessors

// #region node

// MoveToNode updates the informational node tag.
func (s *Store) MoveToNode(name string) {
	s.flags.CurrentNode = name
}

// #endregion node

// #region merge

// MergeExtracted folds an extracted mapping into the collected data.
// Only the identity, contact, and financial categories are recognized;
// unknown categories are dropped. Within a category, every present key
// overwrites the stored field unconditionally — including an explicit
// null, which clears a previously collected value. That null-overwrite
// behavior is intentional-as-shipped and covered by tests.
// No-op once a terminal flag is set.
func (s *Store) MergeExtracted(updates map[string]map[string]any) {
	if s.flags.Terminated || s.flags.Complete {
		return
	}
	for category, fields := range updates {
		switch category {
		case "identity":
			for key, v := range fields {
				switch key {
				case "dob":
					setString(&s.data.Identity.DOB, v)
				case "ssnLast4":
					setString(&s.data.Identity.SSNLast4, v)
				}
			}
		case "contact":
			for key, v := range fields {
				switch key {
				case "street":
					setString(&s.data.Contact.Street, v)
				case "city":
					setString(&s.data.Contact.City, v)
				case "state":
					setString(&s.data.Contact.State, v)
				case "zip":
					setString(&s.data.Contact.Zip, v)
				case "unit":
					setString(&s.data.Contact.Unit, v)
				case "email":
					setString(&s.data.Contact.Email, v)
				}
			}
		case "financial":
			for key, v := range fields {
				switch key {
				case "monthlyIncome":
					setInt(&s.data.Financial.MonthlyIncome, v)
				case "jobTenure":
					setInt(&s.data.Financial.JobTenure, v)
				}
			}
		default:
			// unknown category — ignored
		}
	}
}

// #endregion merge

// #region identity

// SetIdentityVerified marks the identity as verified.
func (s *Store) SetIdentityVerified(verified bool) {
	s.flags.IdentityVerified = verified
}

// IncrementIdentityAttempts bumps the failed-attempt counter and returns
// the new count.
func (s *Store) IncrementIdentityAttempts() int {
	s.flags.IdentityAttempts++
	return s.flags.IdentityAttempts
}

// ResetIdentityData clears the identity fields so the resolver re-enters
// the greeting stage. The verified flag is only ever reset through here.
func (s *Store) ResetIdentityData() {
	s.data.Identity = Identity{}
}

// #endregion identity

// #region confirmation

// SetAwaitingConfirmation opens a confirmation gate.
func (s *Store) SetAwaitingConfirmation(tag AwaitingConfirmation) {
	s.flags.AwaitingConfirmation = tag
}

// ClearAwaitingConfirmation closes the open confirmation gate.
func (s *Store) ClearAwaitingConfirmation() {
	s.flags.AwaitingConfirmation = AwaitingNone
}

// #endregion confirmation

// #region terminal

// Terminate marks the session terminated. Terminal and permanent.
func (s *Store) Terminate() {
	s.flags.Terminated = true
}

// MarkComplete marks the session complete. Terminal and permanent.
func (s *Store) MarkComplete() {
	s.flags.Complete = true
}

// #endregion terminal

// #region helpers

// setString assigns an extracted value to a string field. Nil clears the
// field; non-string values are dropped.
func setString(dst **string, v any) {
	if v == nil {
		*dst = nil
		return
	}
	if s, ok := v.(string); ok {
		*dst = &s
	}
}

// setInt assigns an extracted value to an int field. JSON numbers decode
// as float64 and are rounded.
func setInt(dst **int, v any) {
	if v == nil {
		*dst = nil
		return
	}
	switch n := v.(type) {
	case float64:
		i := int(math.Round(n))
		*dst = &i
	case int:
		i := n
		*dst = &i
	}
}

// #endregion helpers
